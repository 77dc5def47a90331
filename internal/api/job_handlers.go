package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/geck-tools/geck/internal/models"
)

// Handlers serialize job snapshots, never the live structs: a running bulk
// import appends log lines under the job mutex the whole time.

func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.Jobs.List()
	snapshots := make([]*models.Job, len(jobs))
	for i, j := range jobs {
		snapshots[i] = j.Snapshot()
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job := s.Jobs.Get(id)
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
