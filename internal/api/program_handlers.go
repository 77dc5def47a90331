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

func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	st := filterState(r, "vendor", "type", "api_type", "status")
	programs := query.Apply(s.Programs.List(), st)
	writeJSON(w, http.StatusOK, programs)
}

func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	p := s.Programs.Get(chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var p models.ProgramConfig
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		writeFieldErrors(w, map[string]string{"name": "this field is required"})
		return
	}
	if s.Programs.FindByName(p.Name) != nil {
		writeError(w, http.StatusConflict, "a program named "+p.Name+" already exists")
		return
	}
	if p.Status == "" {
		p.Status = "active"
	}
	s.Programs.Create(&p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) UpdateProgram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p models.ProgramConfig
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	p.ID = id
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		writeFieldErrors(w, map[string]string{"name": "this field is required"})
		return
	}
	if other := s.Programs.FindByName(p.Name); other != nil && other.ID != id {
		writeError(w, http.StatusConflict, "a program named "+p.Name+" already exists")
		return
	}
	if !s.Programs.Update(&p) {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	if !s.Programs.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) DuplicateProgram(w http.ResponseWriter, r *http.Request) {
	src := s.Programs.Get(chi.URLParam(r, "id"))
	if src == nil {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := validate.DuplicateName(req.Name, programNames(s.Programs.List())); err != nil {
		writeFieldErrors(w, map[string]string{"name": err.Error()})
		return
	}
	dup := &models.ProgramConfig{
		Name:         strings.TrimSpace(req.Name),
		Vendor:       src.Vendor,
		Type:         src.Type,
		APIType:      src.APIType,
		Status:       src.Status,
		Capabilities: append([]string(nil), src.Capabilities...),
	}
	s.Programs.Create(dup)
	writeJSON(w, http.StatusCreated, dup)
}

func (s *Server) ExportProgram(w http.ResponseWriter, r *http.Request) {
	p := s.Programs.Get(chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	writeExport(w, importer.KindProgram, importer.ProgramText(p))
}

func programNames(programs []*models.ProgramConfig) []string {
	names := make([]string, len(programs))
	for i, p := range programs {
		names[i] = p.Name
	}
	return names
}
