package rapport

import (
	"math"
	"strconv"

	"github.com/agroverde/avotrace/internal/models"
)

// Scoring thresholds. Weights inside the export band and firmness inside
// the ripeness band score full marks; outliers are penalized, not failed.
const (
	weightMinGrams = 180.0
	weightMaxGrams = 280.0
	firmnessMin    = 0.5
	firmnessMax    = 1.5

	scoreInBand  = 100.0
	scoreOutBand = 60.0
	scoreNeutral = 80.0
)

// Score computes the rapport's quality score: the mean of per-calibre
// scores, each the mean of a weight score and a firmness score. Image
// mode results carry no machine-readable values and score neutral.
func Score(r *models.QualityRapport) float64 {
	if len(r.Calibres) == 0 {
		return 0
	}
	var sum float64
	for _, calibre := range r.Calibres {
		sum += calibreScore(r.TestResults[calibre])
	}
	return math.Round(sum/float64(len(r.Calibres))*10) / 10
}

func calibreScore(res models.CalibreResult) float64 {
	if res.Mode == models.ResultModeImage {
		return scoreNeutral
	}
	return (bandScore(res.Poids, weightMinGrams, weightMaxGrams) +
		bandScore(res.Firmness, firmnessMin, firmnessMax)) / 2
}

func bandScore(value string, min, max float64) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return scoreOutBand
	}
	if v >= min && v <= max {
		return scoreInBand
	}
	return scoreOutBand
}
