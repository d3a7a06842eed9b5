package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agroverde/avotrace/internal/models"
)

// Visual grid geometry: 3 columns of 12 cells per calibre.
const (
	gridCols      = 3
	cellWidth     = (contentWidth - 2*cellGap) / gridCols
	cellHeight    = 42.0
	cellGap       = 4.0
	captionHeight = 5.0
)

// Visual renders the image-grid rapport: one section per calibre with
// its twelve photos laid out in rows. Images that cannot be fetched or
// embedded become placeholder cells, never a generator failure.
func Visual(ctx context.Context, r *models.QualityRapport, fetch ImageFetcher) ([]byte, error) {
	c := newCanvas()
	c.title("Rapport Visuel — Lot " + orNA(r.LotNumber))

	for _, calibre := range r.Calibres {
		urls := r.Images[calibre]
		c.heading(fmt.Sprintf("Calibre %s (%d images)", calibre, len(urls)))

		for row := 0; row*gridCols < len(urls); row++ {
			c.ensure(cellHeight + captionHeight + cellGap)
			y := c.pdf.GetY()
			for col := 0; col < gridCols; col++ {
				idx := row*gridCols + col
				if idx >= len(urls) {
					break
				}
				x := marginLeft + float64(col)*(cellWidth+cellGap)
				drawCell(ctx, c, calibre, idx, urls[idx], x, y, fetch)
			}
			c.pdf.SetY(y + cellHeight + captionHeight + cellGap)
		}
		c.spacer(4)
	}

	return c.output()
}

func drawCell(ctx context.Context, c *canvas, calibre string, idx int, url string, x, y float64, fetch ImageFetcher) {
	data, err := fetch(ctx, url)
	if err != nil {
		slog.Warn("Image fetch failed, drawing placeholder.", "calibre", calibre, "index", idx, "error", err)
		c.placeholder(x, y, cellWidth, cellHeight)
	} else {
		c.image(fmt.Sprintf("%s-%d", calibre, idx), data, x, y, cellWidth, cellHeight)
	}
	c.pdf.SetFont("Helvetica", "", 8)
	c.pdf.SetXY(x, y+cellHeight)
	c.pdf.CellFormat(cellWidth, captionHeight, fmt.Sprintf("Photo %d", idx+1), "", 0, "C", false, 0, "")
}
