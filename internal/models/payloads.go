package models

// These structs define the JSON payloads exchanged between the API
// server, the finalize workflow and the worker functions.

// FinalizeRapportRequest is the input for the rapport-finalizer function.
type FinalizeRapportRequest struct {
	LotID       string `json:"lotId"`
	ExecutionID string `json:"executionId"`
}

// FinalizeRapportResponse is the output of the rapport-finalizer function.
type FinalizeRapportResponse struct {
	Status       string `json:"status"`
	PDFURL       string `json:"pdfUrl"`
	VisualPDFURL string `json:"visualPdfUrl"`
}
