package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/rapport"
	"github.com/agroverde/avotrace/internal/uploads"
)

// maxSaveCalibreForm bounds one save-calibre request: twelve calibre
// images plus three test photos at the per-image ceiling.
const maxSaveCalibreForm = 15 * uploads.MaxImageBytes

func (s *Server) handleRapportsList(w http.ResponseWriter, r *http.Request) {
	list, err := s.rapports.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRapportsGet(w http.ResponseWriter, r *http.Request) {
	rp, err := s.rapports.Get(r.Context(), r.PathValue("lotId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rp)
}

type saveCalibreResponse struct {
	Rapport     *models.QualityRapport `json:"rapport"`
	AllComplete bool                   `json:"allComplete"`
}

// handleRapportsSaveCalibre accepts a multipart form: text fields
// lotNumber, calibre, calibres (repeated), mode, poids, firmness; file
// fields images (repeated), poidsImage, firmnessImage, pureeImage.
func (s *Server) handleRapportsSaveCalibre(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSaveCalibreForm); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "formulaire multipart invalide"})
		return
	}

	in := rapport.SaveCalibreInput{
		LotID:     r.PathValue("lotId"),
		LotNumber: r.FormValue("lotNumber"),
		Calibre:   r.FormValue("calibre"),
		Calibres:  r.MultipartForm.Value["calibres"],
		Result: models.CalibreResult{
			Mode:     r.FormValue("mode"),
			Poids:    r.FormValue("poids"),
			Firmness: r.FormValue("firmness"),
		},
	}

	for _, fh := range r.MultipartForm.File["images"] {
		f, err := readUpload(fh)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.Files = append(in.Files, f)
	}

	testFields := map[string]string{
		"poidsImage":    rapport.TestFilePoids,
		"firmnessImage": rapport.TestFileFirmness,
		"pureeImage":    rapport.TestFilePuree,
	}
	for field, key := range testFields {
		fhs := r.MultipartForm.File[field]
		if len(fhs) == 0 {
			continue
		}
		f, err := readUpload(fhs[0])
		if err != nil {
			writeError(w, r, err)
			return
		}
		if in.TestFiles == nil {
			in.TestFiles = make(map[string]uploads.File)
		}
		in.TestFiles[key] = f
	}

	rp, allComplete, err := s.rapports.SaveCalibre(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveCalibreResponse{Rapport: rp, AllComplete: allComplete})
}

func (s *Server) handleRapportsFinalize(w http.ResponseWriter, r *http.Request) {
	rp, err := s.rapports.Finalize(r.Context(), r.PathValue("lotId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.FinalizeRapportResponse{
		Status:       rp.Status,
		PDFURL:       rp.PDFURL,
		VisualPDFURL: rp.VisualPDFURL,
	})
}

func (s *Server) handleRapportsRegeneratePDF(w http.ResponseWriter, r *http.Request) {
	rp, err := s.rapports.RegeneratePDFs(r.Context(), r.PathValue("lotId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rp)
}

func readUpload(fh *multipart.FileHeader) (uploads.File, error) {
	src, err := fh.Open()
	if err != nil {
		return uploads.File{}, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return uploads.File{}, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
	}
	return uploads.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
