package models

import "time"

// Lot statuses, in the order a lot normally moves through them.
const (
	LotStatusDraft         = "draft"
	LotStatusCompleted     = "completed"
	LotStatusSubmitted     = "submitted"
	LotStatusChiefApproved = "chief_approved"
	LotStatusChiefRejected = "chief_rejected"
)

// Lot phases. The controller fills the form, the chief approves it.
const (
	PhaseController = "controller"
	PhaseChief      = "chief"
)

// Palette is one palette line inside a lot's form data.
type Palette struct {
	Number      int     `firestore:"number" json:"number"`
	BoxCount    int     `firestore:"boxCount" json:"boxCount"`
	GrossWeight float64 `firestore:"grossWeight" json:"grossWeight"`
	NetWeight   float64 `firestore:"netWeight" json:"netWeight"`
}

// CalculatedResults are derived from the palette lines at form submit.
type CalculatedResults struct {
	TotalBoxes      int     `firestore:"totalBoxes" json:"totalBoxes"`
	TotalGrossKg    float64 `firestore:"totalGrossKg" json:"totalGrossKg"`
	TotalNetKg      float64 `firestore:"totalNetKg" json:"totalNetKg"`
	AverageBoxKg    float64 `firestore:"averageBoxKg" json:"averageBoxKg"`
	ConformityRatio float64 `firestore:"conformityRatio" json:"conformityRatio"`
}

// LotFormData is the controller-entered part of a quality control lot.
type LotFormData struct {
	Product  string            `firestore:"product" json:"product"`
	Variety  string            `firestore:"variety" json:"variety"`
	Campaign string            `firestore:"campaign" json:"campaign"`
	Palettes []Palette         `firestore:"palettes" json:"palettes"`
	Results  CalculatedResults `firestore:"results" json:"results"`
}

// QualityControlLot is the main record for a controlled lot in Firestore.
// The chief-approval screen only ever mutates Status, Phase and the
// Chief* fields; everything else belongs to the controller form.
type QualityControlLot struct {
	ID            string      `firestore:"-" json:"id"`
	LotNumber     string      `firestore:"lotNumber" json:"lotNumber"`
	FormData      LotFormData `firestore:"formData" json:"formData"`
	Images        []string    `firestore:"images" json:"images"`
	Calibres      []string    `firestore:"calibres" json:"calibres"`
	Status        string      `firestore:"status" json:"status"`
	Phase         string      `firestore:"phase" json:"phase"`
	ChiefComment  string      `firestore:"chiefComment,omitempty" json:"chiefComment,omitempty"`
	ChiefEmail    string      `firestore:"chiefEmail,omitempty" json:"chiefEmail,omitempty"`
	ApprovalDate  time.Time   `firestore:"approvalDate,omitempty" json:"approvalDate,omitempty"`
	CreatedAt     time.Time   `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time   `firestore:"updatedAt" json:"updatedAt"`
	SubmittedAt   time.Time   `firestore:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	ControllerUID string      `firestore:"controllerUid,omitempty" json:"controllerUid,omitempty"`
}
