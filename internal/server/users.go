package server

import (
	"net/http"

	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/uploads"
	"github.com/agroverde/avotrace/internal/users"
)

func (s *Server) handleUsersList(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUsersCreate(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeJSON(w, r, &user) {
		return
	}
	created, err := s.users.Create(r.Context(), &user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUsersGet(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUsersUpdate(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeJSON(w, r, &user) {
		return
	}
	user.ID = r.PathValue("id")
	updated, err := s.users.Update(r.Context(), &user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleUsersDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "utilisateur supprimé"})
}

type boxFileResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleUsersBoxFileUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxBoxFileBytes + 1<<20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "formulaire multipart invalide"})
		return
	}
	fhs := r.MultipartForm.File["file"]
	if len(fhs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "un fichier est requis"})
		return
	}
	f, err := readUpload(fhs[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	url, err := s.users.UploadBoxFile(r.Context(), r.PathValue("id"), r.PathValue("boxId"), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, boxFileResponse{URL: url})
}

type sectionsResponse struct {
	Role     models.Role `json:"role"`
	Sections []string    `json:"sections"`
}

func (s *Server) handleUsersSections(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if !role.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "rôle inconnu"})
		return
	}
	writeJSON(w, http.StatusOK, sectionsResponse{Role: role, Sections: users.VisibleSections(role)})
}
