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

type permissionPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

func presentPermission(p *store.Permission) permissionPayload {
	return permissionPayload{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Group:       p.Group,
	}
}

func presentPermissions(ps []store.Permission) []permissionPayload {
	out := make([]permissionPayload, 0, len(ps))
	for i := range ps {
		out = append(out, presentPermission(&ps[i]))
	}
	return out
}

// RegisterPermissionsEndpoints registers the permission catalog CRUD routes.
func RegisterPermissionsEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/permissions").Subrouter()
	router.Use(s.Verifier.Middleware)

	router.HandleFunc("", handleListPermissions(s)).Methods("GET")
	router.HandleFunc("", handleCreatePermission(s)).Methods("POST")
	router.HandleFunc("/{id}", handleGetPermission(s)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdatePermission(s)).Methods("PUT")
	router.HandleFunc("/{id}", handleDeletePermission(s)).Methods("DELETE")
}

func handleListPermissions(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireSuper(s, w, r); !ok {
			return
		}

		permissions, err := s.Permissions.List()
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentPermissions(capList(s, permissions)))
	}
}

func handleGetPermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireSuper(s, w, r); !ok {
			return
		}

		permission, err := s.Permissions.Get(mux.Vars(r)["id"])
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentPermission(permission))
	}
}

func handleCreatePermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		var body struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Group       string `json:"group"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		permission, err := s.Permissions.Create(catalog.CreatePermissionInput{
			Name:        body.Name,
			Description: body.Description,
			Group:       body.Group,
		})
		audit.Log(audit.PermissionEvent{
			Actor:          actor.Subject,
			ClientIP:       actor.ClientIP(),
			PermissionName: body.Name,
			Operation:      "create",
			Success:        err == nil,
			ErrorMessage:   errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, presentPermission(permission))
	}
}

func handleUpdatePermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		var body struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			Group       *string `json:"group"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id := mux.Vars(r)["id"]
		permission, err := s.Permissions.Update(id, catalog.UpdatePermissionInput{
			Name:        body.Name,
			Description: body.Description,
			Group:       body.Group,
		})

		name := id
		if permission != nil {
			name = permission.Name
		}
		audit.Log(audit.PermissionEvent{
			Actor:          actor.Subject,
			ClientIP:       actor.ClientIP(),
			PermissionName: name,
			Operation:      "update",
			Success:        err == nil,
			ErrorMessage:   errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentPermission(permission))
	}
}

func handleDeletePermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		id := mux.Vars(r)["id"]
		err := s.Permissions.Delete(id)
		audit.Log(audit.PermissionEvent{
			Actor:          actor.Subject,
			ClientIP:       actor.ClientIP(),
			PermissionName: id,
			Operation:      "delete",
			Success:        err == nil,
			ErrorMessage:   errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
