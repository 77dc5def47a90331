package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/geck-tools/geck/internal/importer"
	"github.com/geck-tools/geck/internal/models"
	"github.com/geck-tools/geck/internal/query"
	"github.com/geck-tools/geck/internal/validate"
)

// userForm is the create/edit payload. Passwords are accepted on create and
// validated, but never stored in the listable user record; credential
// handling belongs to the auth service in front of this tool.
type userForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Active          *bool  `json:"active"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (f userForm) draft() validate.UserDraft {
	return validate.UserDraft{
		Name:            f.Name,
		Email:           f.Email,
		Role:            f.Role,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	st := filterState(r, "role", "status")
	users := query.Apply(s.Users.List(), st)
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	u := s.Users.Get(chi.URLParam(r, "id"))
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var f userForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if errs := validate.UserCreate(f.draft()); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}
	email := strings.TrimSpace(f.Email)
	if s.Users.FindByEmail(email) != nil {
		writeError(w, http.StatusConflict, "a user with email "+email+" already exists")
		return
	}
	role := f.Role
	if role == "" {
		role = "viewer"
	}
	active := true
	if f.Active != nil {
		active = *f.Active
	}
	u := &models.User{
		Name:   strings.TrimSpace(f.Name),
		Email:  email,
		Role:   role,
		Active: active,
	}
	s.Users.Create(u)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing := s.Users.Get(id)
	if existing == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	var f userForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if errs := validate.UserEdit(f.draft()); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}
	email := strings.TrimSpace(f.Email)
	if other := s.Users.FindByEmail(email); other != nil && other.ID != id {
		writeError(w, http.StatusConflict, "a user with email "+email+" already exists")
		return
	}
	u := &models.User{
		ID:     id,
		Name:   strings.TrimSpace(f.Name),
		Email:  email,
		Role:   existing.Role,
		Active: existing.Active,
	}
	if f.Role != "" {
		u.Role = f.Role
	}
	if f.Active != nil {
		u.Active = *f.Active
	}
	s.Users.Update(u)
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !s.Users.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleUserActive flips a user's active flag. A user may never deactivate
// themself; the acting user is identified by the X-Acting-User header set
// by the auth layer in front of this service.
func (s *Server) ToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if actor := r.Header.Get("X-Acting-User"); actor != "" && actor == id {
		writeError(w, http.StatusConflict, "you cannot change your own active status")
		return
	}
	active, ok := s.Users.ToggleActive(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "active": active})
}

func (s *Server) ExportUser(w http.ResponseWriter, r *http.Request) {
	u := s.Users.Get(chi.URLParam(r, "id"))
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeExport(w, importer.KindUser, importer.UserText(u))
}
