package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/geck-tools/geck/internal/importer"
	"github.com/geck-tools/geck/internal/models"
)

// Server holds shared state for all API handlers.
type Server struct {
	Contexts *models.ContextStore
	Programs *models.ProgramStore
	Users    *models.UserStore
	Jobs     *models.JobStore
	Importer *importer.Importer
	Log      logrus.FieldLogger
}

// NewRouter builds the chi router with all API routes.
func NewRouter(s *Server) http.Handler {
	if s.Log == nil {
		s.Log = logrus.StandardLogger()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Customer contexts
		r.Route("/contexts", func(r chi.Router) {
			r.Get("/", s.ListContexts)
			r.Post("/", s.CreateContext)
			r.Post("/import/bulk", s.BulkImportContexts)
			r.Post("/import/file", s.ImportContextFile)
			r.Get("/{id}", s.GetContext)
			r.Put("/{id}", s.UpdateContext)
			r.Delete("/{id}", s.DeleteContext)
			r.Post("/{id}/duplicate", s.DuplicateContext)
			r.Get("/{id}/export", s.ExportContext)
		})

		// Program configs
		r.Route("/programs", func(r chi.Router) {
			r.Get("/", s.ListPrograms)
			r.Post("/", s.CreateProgram)
			r.Post("/import/bulk", s.BulkImportPrograms)
			r.Post("/import/file", s.ImportProgramFile)
			r.Get("/{id}", s.GetProgram)
			r.Put("/{id}", s.UpdateProgram)
			r.Delete("/{id}", s.DeleteProgram)
			r.Post("/{id}/duplicate", s.DuplicateProgram)
			r.Get("/{id}/export", s.ExportProgram)
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.ListUsers)
			r.Post("/", s.CreateUser)
			r.Post("/import/bulk", s.BulkImportUsers)
			r.Post("/import/file", s.ImportUserFile)
			r.Get("/{id}", s.GetUser)
			r.Put("/{id}", s.UpdateUser)
			r.Delete("/{id}", s.DeleteUser)
			r.Post("/{id}/toggle-active", s.ToggleUserActive)
			r.Get("/{id}/export", s.ExportUser)
		})

		// Jobs
		r.Get("/jobs", s.ListJobs)
		r.Get("/jobs/{id}", s.GetJob)
	})

	// WebSocket (outside /api to avoid JSON content-type assumptions)
	r.Get("/ws/jobs/{id}/logs", s.StreamJobLogs)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Acting-User")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
