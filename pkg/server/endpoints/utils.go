package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/audit"
	"github.com/taskhub/rbac/pkg/identity"
	"github.com/taskhub/rbac/pkg/server"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithAppError maps the error taxonomy onto HTTP statuses. Internal
// failures respond with a generic message so store details never reach the
// client.
func respondWithAppError(w http.ResponseWriter, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		respondWithError(w, http.StatusNotFound, err.Error())
	case apperror.KindConflict:
		respondWithError(w, http.StatusConflict, err.Error())
	case apperror.KindInvalidInput:
		respondWithError(w, http.StatusBadRequest, err.Error())
	case apperror.KindForbidden:
		respondWithError(w, http.StatusForbidden, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

// requireSuper resolves the request actor and enforces the super-role gate.
// A denial is audited before responding.
func requireSuper(s *server.Server, w http.ResponseWriter, r *http.Request) (*identity.Actor, bool) {
	actor, ok := identity.Get(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	if err := s.RoleGate.Check([]string{s.Config.SuperRoleName}, actor.RoleName); err != nil {
		audit.Log(audit.DenialEvent{
			Actor:    actor.Subject,
			ClientIP: actor.ClientIP(),
			RoleName: actor.RoleName,
			Gate:     "role",
			Required: []string{s.Config.SuperRoleName},
		})
		respondWithAppError(w, err)
		return nil, false
	}
	return actor, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// capList truncates listing responses to the configured maximum.
func capList[T any](s *server.Server, items []T) []T {
	max := s.Config.APIListLimitMax
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}
