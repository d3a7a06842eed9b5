package report

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Finish validates and optimizes a freshly generated PDF and returns the
// optimized bytes together with the page count. Every generated document
// goes through here before upload or download.
func Finish(raw []byte) ([]byte, int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(raw), &buf, conf); err != nil {
		return nil, 0, fmt.Errorf("failed to optimize PDF: %w", err)
	}

	pageCount, err := api.PageCount(bytes.NewReader(buf.Bytes()), conf)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return buf.Bytes(), pageCount, nil
}
