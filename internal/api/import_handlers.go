package api

import (
	"encoding/json"
	"net/http"

	"github.com/geck-tools/geck/internal/importer"
)

func (s *Server) BulkImportContexts(w http.ResponseWriter, r *http.Request) {
	s.bulkImport(w, importer.KindContext)
}

func (s *Server) BulkImportPrograms(w http.ResponseWriter, r *http.Request) {
	s.bulkImport(w, importer.KindProgram)
}

func (s *Server) BulkImportUsers(w http.ResponseWriter, r *http.Request) {
	s.bulkImport(w, importer.KindUser)
}

// bulkImport scans the server-side definitions directory for the given kind.
// The run is recorded as a job so its log lines can be streamed or reviewed
// later, but the summary is returned directly in the response.
func (s *Server) bulkImport(w http.ResponseWriter, kind string) {
	job := s.Jobs.Create("bulk-import", kind)
	result, err := s.Importer.BulkImport(kind, job.AppendLog)
	if err != nil {
		job.AppendLog("ERROR: " + err.Error())
		job.Fail(err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
			"job_id":  job.ID,
		})
		return
	}
	job.Complete()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": result.Summary,
		"details": result.Details,
		"job_id":  job.ID,
	})
}

func (s *Server) ImportContextFile(w http.ResponseWriter, r *http.Request) {
	s.importFile(w, r, importer.KindContext)
}

func (s *Server) ImportProgramFile(w http.ResponseWriter, r *http.Request) {
	s.importFile(w, r, importer.KindProgram)
}

func (s *Server) ImportUserFile(w http.ResponseWriter, r *http.Request) {
	s.importFile(w, r, importer.KindUser)
}

// importFile applies a single uploaded definition file: the request carries
// the original filename plus the raw text content read client-side.
func (s *Server) importFile(w http.ResponseWriter, r *http.Request, kind string) {
	var req struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	action, err := s.Importer.ImportFile(kind, req.Filename, []byte(req.Content))
	if err != nil {
		s.Log.WithField("file", req.Filename).WithError(err).Warn("file import failed")
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"action":  action,
	})
}
