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

func (s *Server) ListContexts(w http.ResponseWriter, r *http.Request) {
	st := filterState(r, "industry", "entity", "status")
	contexts := query.Apply(s.Contexts.List(), st)
	writeJSON(w, http.StatusOK, contexts)
}

func (s *Server) GetContext(w http.ResponseWriter, r *http.Request) {
	c := s.Contexts.Get(chi.URLParam(r, "id"))
	if c == nil {
		writeError(w, http.StatusNotFound, "context not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) CreateContext(w http.ResponseWriter, r *http.Request) {
	var c models.CustomerContext
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		writeFieldErrors(w, map[string]string{"name": "this field is required"})
		return
	}
	if s.Contexts.FindByName(c.Name) != nil {
		writeError(w, http.StatusConflict, "a context named "+c.Name+" already exists")
		return
	}
	if c.Status == "" {
		c.Status = "active"
	}
	s.Contexts.Create(&c)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) UpdateContext(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var c models.CustomerContext
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	c.ID = id
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		writeFieldErrors(w, map[string]string{"name": "this field is required"})
		return
	}
	if other := s.Contexts.FindByName(c.Name); other != nil && other.ID != id {
		writeError(w, http.StatusConflict, "a context named "+c.Name+" already exists")
		return
	}
	if !s.Contexts.Update(&c) {
		writeError(w, http.StatusNotFound, "context not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) DeleteContext(w http.ResponseWriter, r *http.Request) {
	if !s.Contexts.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "context not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) DuplicateContext(w http.ResponseWriter, r *http.Request) {
	src := s.Contexts.Get(chi.URLParam(r, "id"))
	if src == nil {
		writeError(w, http.StatusNotFound, "context not found")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := validate.DuplicateName(req.Name, contextNames(s.Contexts.List())); err != nil {
		writeFieldErrors(w, map[string]string{"name": err.Error()})
		return
	}
	dup := &models.CustomerContext{
		Name:         strings.TrimSpace(req.Name),
		CustomerName: src.CustomerName,
		Industry:     src.Industry,
		Entity:       src.Entity,
		Status:       src.Status,
		Capabilities: append([]string(nil), src.Capabilities...),
	}
	s.Contexts.Create(dup)
	writeJSON(w, http.StatusCreated, dup)
}

func (s *Server) ExportContext(w http.ResponseWriter, r *http.Request) {
	c := s.Contexts.Get(chi.URLParam(r, "id"))
	if c == nil {
		writeError(w, http.StatusNotFound, "context not found")
		return
	}
	writeExport(w, importer.KindContext, importer.ContextText(c))
}

func contextNames(contexts []*models.CustomerContext) []string {
	names := make([]string, len(contexts))
	for i, c := range contexts {
		names[i] = c.Name
	}
	return names
}
