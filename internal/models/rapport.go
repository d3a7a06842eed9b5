package models

import "time"

// ImagesPerCalibre is the number of photos a controller must provide for
// each calibre before it counts as complete. Fewer or more are rejected.
const ImagesPerCalibre = 12

// Rapport statuses.
const (
	RapportStatusDraft     = "draft"
	RapportStatusCompleted = "completed"
	RapportStatusArchived  = "archived"
)

// Result entry modes. Manual results are typed in by the controller,
// image results are photographed scale/penetrometer readings.
const (
	ResultModeManual = "manual"
	ResultModeImage  = "image"
)

// CalibreResult holds the test results for one calibre. Mode selects
// which of the two field sets is authoritative; PureeImageURL is required
// in both modes.
type CalibreResult struct {
	Mode             string `firestore:"mode" json:"mode"`
	Poids            string `firestore:"poids,omitempty" json:"poids,omitempty"`
	Firmness         string `firestore:"firmness,omitempty" json:"firmness,omitempty"`
	PoidsImageURL    string `firestore:"poidsImageUrl,omitempty" json:"poidsImageUrl,omitempty"`
	FirmnessImageURL string `firestore:"firmnessImageUrl,omitempty" json:"firmnessImageUrl,omitempty"`
	PureeImageURL    string `firestore:"pureeImageUrl,omitempty" json:"pureeImageUrl,omitempty"`
}

// Filled reports whether the mode-appropriate fields are all non-empty.
func (r CalibreResult) Filled() bool {
	switch r.Mode {
	case ResultModeManual:
		return r.Poids != "" && r.Firmness != "" && r.PureeImageURL != ""
	case ResultModeImage:
		return r.PoidsImageURL != "" && r.FirmnessImageURL != "" && r.PureeImageURL != ""
	default:
		return false
	}
}

// QualityRapport aggregates all calibres' images and results for a lot.
// LotID is an explicit foreign key to quality_control_lots; rapports are
// written incrementally, one partial write per completed calibre.
type QualityRapport struct {
	ID           string                   `firestore:"-" json:"id"`
	LotID        string                   `firestore:"lotId" json:"lotId"`
	LotNumber    string                   `firestore:"lotNumber" json:"lotNumber"`
	Calibres     []string                 `firestore:"calibres" json:"calibres"`
	Images       map[string][]string      `firestore:"images" json:"images"`
	TestResults  map[string]CalibreResult `firestore:"testResults" json:"testResults"`
	Status       string                   `firestore:"status" json:"status"`
	QualityScore float64                  `firestore:"qualityScore,omitempty" json:"qualityScore,omitempty"`
	PDFURL       string                   `firestore:"pdfUrl,omitempty" json:"pdfUrl,omitempty"`
	VisualPDFURL string                   `firestore:"visualPdfUrl,omitempty" json:"visualPdfUrl,omitempty"`
	ErrorDetails string                   `firestore:"errorDetails,omitempty" json:"errorDetails,omitempty"`
	CreatedAt    time.Time                `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time                `firestore:"updatedAt" json:"updatedAt"`
	CompletedAt  time.Time                `firestore:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// CalibreComplete reports whether a single calibre satisfies the
// completion predicate: exactly ImagesPerCalibre stored URLs and a fully
// filled result record.
func (r *QualityRapport) CalibreComplete(calibre string) bool {
	if len(r.Images[calibre]) != ImagesPerCalibre {
		return false
	}
	res, ok := r.TestResults[calibre]
	return ok && res.Filled()
}

// AllCalibresComplete reports whether every calibre in the rapport's
// calibre list independently satisfies CalibreComplete. An empty calibre
// list is never complete.
func (r *QualityRapport) AllCalibresComplete() bool {
	if len(r.Calibres) == 0 {
		return false
	}
	for _, c := range r.Calibres {
		if !r.CalibreComplete(c) {
			return false
		}
	}
	return true
}
