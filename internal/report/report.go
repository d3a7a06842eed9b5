// Package report renders the quality rapport and traceability documents
// as paginated PDFs. Layout is linear: each generator walks its record,
// draws blocks top to bottom and starts a new page when the cursor would
// cross the content limit.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pdf/fpdf"
)

// A4 layout constants, in millimetres.
const (
	pageWidth     = 210.0
	marginLeft    = 15.0
	marginTop     = 15.0
	contentWidth  = pageWidth - 2*marginLeft
	contentBottom = 272.0
)

// ImageFetcher retrieves an image by URL for embedding. A failed fetch is
// handled locally with a placeholder, never a generator failure.
type ImageFetcher func(ctx context.Context, url string) ([]byte, error)

// HTTPFetcher returns an ImageFetcher backed by an HTTP client with a
// per-request timeout.
func HTTPFetcher(timeout time.Duration) ImageFetcher {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context, url string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
}

// canvas wraps fpdf with the manual pagination discipline shared by all
// three generators.
type canvas struct {
	pdf *fpdf.Fpdf
}

func newCanvas() *canvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.AddPage()
	return &canvas{pdf: pdf}
}

// ensure starts a new page when h more millimetres would not fit.
func (c *canvas) ensure(h float64) {
	if c.pdf.GetY()+h > contentBottom {
		c.pdf.AddPage()
		c.pdf.SetY(marginTop)
	}
}

func (c *canvas) title(text string) {
	c.ensure(14)
	c.pdf.SetFont("Helvetica", "B", 16)
	c.pdf.SetTextColor(20, 60, 20)
	c.pdf.CellFormat(contentWidth, 10, text, "", 1, "C", false, 0, "")
	c.pdf.SetDrawColor(20, 60, 20)
	y := c.pdf.GetY() + 1
	c.pdf.Line(marginLeft, y, pageWidth-marginLeft, y)
	c.pdf.Ln(5)
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *canvas) heading(text string) {
	c.ensure(12)
	c.pdf.SetFont("Helvetica", "B", 12)
	c.pdf.SetFillColor(230, 240, 230)
	c.pdf.CellFormat(contentWidth, 8, text, "", 1, "L", true, 0, "")
	c.pdf.Ln(2)
}

func (c *canvas) keyValue(key, value string) {
	c.ensure(7)
	c.pdf.SetFont("Helvetica", "B", 10)
	c.pdf.CellFormat(55, 6, key, "", 0, "L", false, 0, "")
	c.pdf.SetFont("Helvetica", "", 10)
	c.pdf.CellFormat(contentWidth-55, 6, value, "", 1, "L", false, 0, "")
}

func (c *canvas) tableHeader(widths []float64, cells []string) {
	c.ensure(8)
	c.pdf.SetFont("Helvetica", "B", 9)
	c.pdf.SetFillColor(210, 225, 210)
	for i, cell := range cells {
		c.pdf.CellFormat(widths[i], 7, cell, "1", 0, "C", true, 0, "")
	}
	c.pdf.Ln(-1)
}

func (c *canvas) tableRow(widths []float64, cells []string) {
	c.ensure(7)
	c.pdf.SetFont("Helvetica", "", 9)
	for i, cell := range cells {
		c.pdf.CellFormat(widths[i], 6, cell, "1", 0, "C", false, 0, "")
	}
	c.pdf.Ln(-1)
}

func (c *canvas) spacer(h float64) {
	c.ensure(h)
	c.pdf.Ln(h)
}

// image embeds a fetched image at the cursor-independent position, or a
// placeholder rectangle with an "unavailable" caption when the bytes
// cannot be used.
func (c *canvas) image(name string, data []byte, x, y, w, h float64) {
	imgType := imageType(data)
	drawn := false
	if imgType != "" {
		opts := fpdf.ImageOptions{ImageType: imgType}
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if !c.pdf.Err() {
			c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
			drawn = !c.pdf.Err()
		}
		if c.pdf.Err() {
			// One bad image must not poison the rest of the document.
			c.pdf.ClearError()
		}
	}
	if !drawn {
		c.placeholder(x, y, w, h)
	}
}

func (c *canvas) placeholder(x, y, w, h float64) {
	c.pdf.SetDrawColor(160, 160, 160)
	c.pdf.SetFillColor(243, 243, 243)
	c.pdf.Rect(x, y, w, h, "FD")
	c.pdf.SetFont("Helvetica", "I", 8)
	c.pdf.SetTextColor(120, 120, 120)
	c.pdf.SetXY(x, y+h/2-3)
	c.pdf.CellFormat(w, 6, "image indisponible", "", 0, "C", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *canvas) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// orNA substitutes the literal fallback for missing optional fields.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNADate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("02/01/2006")
}

func imageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}
