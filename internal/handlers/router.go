package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// Router wraps the mux router.
type Router struct {
	*mux.Router
}

// NewRouter creates the HTTP router with the health endpoint registered.
// Feature handlers attach their own routes via RegisterRoutes.
func NewRouter() *Router {
	r := &Router{Router: mux.NewRouter()}
	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
