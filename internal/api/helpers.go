package api

import (
	"encoding/json"
	"net/http"

	"github.com/geck-tools/geck/internal/importer"
	"github.com/geck-tools/geck/internal/query"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFieldErrors reports client-side style validation failures: a
// field→message map the form renders inline next to each offending field.
func writeFieldErrors(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
}

// writeExport serves definition-file text as a client download.
func writeExport(w http.ResponseWriter, kind, text string) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+importer.ExportFilename(kind)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// filterState builds a query.State from request query params. Only the
// listed categorical keys are honored; anything else is ignored.
func filterState(r *http.Request, keys ...string) query.State {
	q := r.URL.Query()
	st := query.State{Search: q.Get("search"), Filters: map[string]string{}}
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			st.Filters[k] = v
		}
	}
	return st
}
