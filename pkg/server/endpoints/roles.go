package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhub/rbac/pkg/audit"
	"github.com/taskhub/rbac/pkg/catalog"
	"github.com/taskhub/rbac/pkg/server"
	"github.com/taskhub/rbac/pkg/store"
)

type rolePayload struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	IsSystemRole bool                `json:"isSystemRole"`
	Permissions  []permissionPayload `json:"permissions"`
}

func presentRole(role *store.Role) rolePayload {
	return rolePayload{
		ID:           role.ID,
		Name:         role.Name,
		Description:  role.Description,
		IsSystemRole: role.IsSystemRole,
		Permissions:  presentPermissions(role.Permissions),
	}
}

func presentRoles(roles []store.Role) []rolePayload {
	out := make([]rolePayload, 0, len(roles))
	for i := range roles {
		out = append(out, presentRole(&roles[i]))
	}
	return out
}

// RegisterRolesEndpoints registers the role catalog CRUD and single-grant
// routes.
func RegisterRolesEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/roles").Subrouter()
	router.Use(s.Verifier.Middleware)

	router.HandleFunc("", handleListRoles(s)).Methods("GET")
	router.HandleFunc("", handleCreateRole(s)).Methods("POST")
	router.HandleFunc("/{id}", handleGetRole(s)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdateRole(s)).Methods("PUT")
	router.HandleFunc("/{id}", handleDeleteRole(s)).Methods("DELETE")
	router.HandleFunc("/{id}/permissions/{permissionId}", handleGrantPermission(s)).Methods("POST")
	router.HandleFunc("/{id}/permissions/{permissionId}", handleRevokePermission(s)).Methods("DELETE")
}

func handleListRoles(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireSuper(s, w, r); !ok {
			return
		}

		roles, err := s.Roles.List()
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentRoles(capList(s, roles)))
	}
}

func handleGetRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireSuper(s, w, r); !ok {
			return
		}

		role, err := s.Roles.Get(mux.Vars(r)["id"])
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentRole(role))
	}
}

func handleCreateRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		var body struct {
			Name          string   `json:"name"`
			Description   string   `json:"description"`
			PermissionIDs []string `json:"permissionIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		role, err := s.Roles.Create(catalog.CreateRoleInput{
			Name:          body.Name,
			Description:   body.Description,
			PermissionIDs: body.PermissionIDs,
		})
		audit.Log(audit.RoleEvent{
			Actor:        actor.Subject,
			ClientIP:     actor.ClientIP(),
			RoleName:     body.Name,
			Operation:    "create",
			Success:      err == nil,
			ErrorMessage: errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, presentRole(role))
	}
}

func handleUpdateRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		var body struct {
			Name          *string   `json:"name"`
			Description   *string   `json:"description"`
			PermissionIDs *[]string `json:"permissionIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id := mux.Vars(r)["id"]
		role, err := s.Roles.Update(id, catalog.UpdateRoleInput{
			Name:          body.Name,
			Description:   body.Description,
			PermissionIDs: body.PermissionIDs,
		})

		name := id
		if role != nil {
			name = role.Name
		}
		audit.Log(audit.RoleEvent{
			Actor:        actor.Subject,
			ClientIP:     actor.ClientIP(),
			RoleName:     name,
			Operation:    "update",
			Success:      err == nil,
			ErrorMessage: errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentRole(role))
	}
}

func handleDeleteRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		id := mux.Vars(r)["id"]
		err := s.Roles.Delete(id)
		audit.Log(audit.RoleEvent{
			Actor:        actor.Subject,
			ClientIP:     actor.ClientIP(),
			RoleName:     id,
			Operation:    "delete",
			Success:      err == nil,
			ErrorMessage: errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func handleGrantPermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		vars := mux.Vars(r)
		role, err := s.Roles.AddPermission(vars["id"], vars["permissionId"])

		roleName := vars["id"]
		if role != nil {
			roleName = role.Name
		}
		audit.Log(audit.GrantEvent{
			Actor:          actor.Subject,
			ClientIP:       actor.ClientIP(),
			RoleName:       roleName,
			PermissionName: vars["permissionId"],
			Success:        err == nil,
			ErrorMessage:   errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentRole(role))
	}
}

func handleRevokePermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		vars := mux.Vars(r)
		role, err := s.Roles.RemovePermission(vars["id"], vars["permissionId"])

		roleName := vars["id"]
		if role != nil {
			roleName = role.Name
		}
		audit.Log(audit.GrantEvent{
			Actor:          actor.Subject,
			ClientIP:       actor.ClientIP(),
			RoleName:       roleName,
			PermissionName: vars["permissionId"],
			Revoke:         true,
			Success:        err == nil,
			ErrorMessage:   errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentRole(role))
	}
}
