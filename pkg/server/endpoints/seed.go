package endpoints

import (
	"net/http"

	"github.com/taskhub/rbac/pkg/audit"
	"github.com/taskhub/rbac/pkg/server"
)

// RegisterSeedEndpoints registers the on-demand catalog seeding route.
func RegisterSeedEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/seed").Subrouter()
	router.Use(s.Verifier.Middleware)

	router.HandleFunc("", handleSeed(s)).Methods("POST")
}

func handleSeed(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		res, err := s.Seeder.Run(s.SeedDefinitions)
		if err == nil {
			err = s.Workflows.SeedDefaultWorkflow()
		}
		audit.Log(audit.SeedEvent{
			Actor:              actor.Subject,
			ClientIP:           actor.ClientIP(),
			PermissionsCreated: res.PermissionsCreated,
			RolesCreated:       res.RolesCreated,
			RolesRepaired:      res.RolesRepaired,
			Success:            err == nil,
			ErrorMessage:       errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"permissionsCreated": res.PermissionsCreated,
			"rolesCreated":       res.RolesCreated,
			"rolesRepaired":      res.RolesRepaired,
			"changed":            res.Changed(),
		})
	}
}
