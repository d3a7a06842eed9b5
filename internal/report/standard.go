package report

import (
	"fmt"

	"github.com/agroverde/avotrace/internal/models"
)

// Standard renders the text-oriented quality rapport: lot identity, one
// results row per calibre and the computed score. It is total over
// well-formed rapports; missing optional fields render as "N/A".
func Standard(r *models.QualityRapport) ([]byte, error) {
	c := newCanvas()
	c.title("Rapport de Contrôle Qualité")

	c.keyValue("Lot", orNA(r.LotNumber))
	c.keyValue("Statut", orNA(r.Status))
	c.keyValue("Créé le", orNADate(r.CreatedAt))
	c.keyValue("Complété le", orNADate(r.CompletedAt))
	c.keyValue("Calibres", fmt.Sprintf("%d", len(r.Calibres)))
	if r.QualityScore > 0 {
		c.keyValue("Score qualité", fmt.Sprintf("%.1f / 100", r.QualityScore))
	} else {
		c.keyValue("Score qualité", "N/A")
	}
	c.spacer(4)

	c.heading("Résultats par calibre")
	widths := []float64{25, 22, 30, 30, 38, 35}
	c.tableHeader(widths, []string{"Calibre", "Mode", "Poids", "Fermeté", "Purée", "Images"})
	for _, calibre := range r.Calibres {
		res := r.TestResults[calibre]
		poids, firmness := orNA(res.Poids), orNA(res.Firmness)
		if res.Mode == models.ResultModeImage {
			poids = resultImageCell(res.PoidsImageURL)
			firmness = resultImageCell(res.FirmnessImageURL)
		}
		c.tableRow(widths, []string{
			calibre,
			orNA(res.Mode),
			poids,
			firmness,
			resultImageCell(res.PureeImageURL),
			fmt.Sprintf("%d / %d", len(r.Images[calibre]), models.ImagesPerCalibre),
		})
	}
	c.spacer(6)

	c.heading("Observations")
	for _, calibre := range r.Calibres {
		status := "incomplet"
		if r.CalibreComplete(calibre) {
			status = "complet"
		}
		c.keyValue("Calibre "+calibre, status)
	}

	return c.output()
}

func resultImageCell(url string) string {
	if url == "" {
		return "N/A"
	}
	return "photo jointe"
}
