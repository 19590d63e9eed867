package endpoints

import (
	"net/http"

	"github.com/taskhub/rbac/pkg/server"
)

// RegisterStatusEndpoints registers the unauthenticated health route.
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/health", handleHealth(s)).Methods("GET")
}

func handleHealth(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger, ok := s.Store.(interface{ Ping() error }); ok {
			if err := pinger.Ping(); err != nil {
				respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":   "unhealthy",
					"database": "unreachable",
				})
				return
			}
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
