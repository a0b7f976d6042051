package httpapi

import (
	"database/sql"
	"net/http"

	"tidegauge-server/internal/utils"
)

// NewMux returns the root mux with the health check mounted. Unknown paths
// under /api/ answer with a JSON 404 so API clients never get the plain-text
// default; feature modules register their own routes on top.
func NewMux(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "no API route for "+r.Method+" "+r.URL.Path)
	})
	return mux
}
