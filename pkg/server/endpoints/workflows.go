package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhub/rbac/pkg/audit"
	"github.com/taskhub/rbac/pkg/server"
	"github.com/taskhub/rbac/pkg/store"
	"github.com/taskhub/rbac/pkg/workflow"
)

type stepPayload struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	StepOrder            int    `json:"stepOrder"`
	PermissionIdentifier string `json:"permissionIdentifier"`
}

type roleNodePayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type overridePayload struct {
	RoleID         string `json:"roleId"`
	WorkflowStepID string `json:"workflowStepId"`
	HasPermission  bool   `json:"hasPermission"`
}

type visualizationPayload struct {
	WorkflowID   string            `json:"workflowId"`
	WorkflowName string            `json:"workflowName"`
	WorkflowSlug string            `json:"workflowSlug"`
	Steps        []stepPayload     `json:"steps"`
	Roles        []roleNodePayload `json:"roles"`
	Overrides    []overridePayload `json:"overrides"`
}

func presentOverride(o *store.StepOverride) overridePayload {
	return overridePayload{
		RoleID:         o.RoleID,
		WorkflowStepID: o.WorkflowStepID,
		HasPermission:  o.HasPermission,
	}
}

func presentVisualization(v *workflow.Visualization) visualizationPayload {
	steps := make([]stepPayload, 0, len(v.Steps))
	for _, s := range v.Steps {
		steps = append(steps, stepPayload{
			ID:                   s.ID,
			Name:                 s.Name,
			Description:          s.Description,
			StepOrder:            s.StepOrder,
			PermissionIdentifier: s.PermissionIdentifier,
		})
	}
	roles := make([]roleNodePayload, 0, len(v.Roles))
	for _, r := range v.Roles {
		roles = append(roles, roleNodePayload{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
		})
	}
	overrides := make([]overridePayload, 0, len(v.Overrides))
	for i := range v.Overrides {
		overrides = append(overrides, presentOverride(&v.Overrides[i]))
	}
	return visualizationPayload{
		WorkflowID:   v.WorkflowID,
		WorkflowName: v.WorkflowName,
		WorkflowSlug: v.WorkflowSlug,
		Steps:        steps,
		Roles:        roles,
		Overrides:    overrides,
	}
}

// RegisterWorkflowsEndpoints registers the workflow visualization and
// override routes.
func RegisterWorkflowsEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/workflows").Subrouter()
	router.Use(s.Verifier.Middleware)

	router.HandleFunc("/step-permissions", handleUpsertOverride(s)).Methods("POST")
	router.HandleFunc("/{slug}/visualization", handleVisualization(s)).Methods("GET")
}

func handleVisualization(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireSuper(s, w, r); !ok {
			return
		}

		v, err := s.Workflows.Visualization(mux.Vars(r)["slug"])
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentVisualization(v))
	}
}

func handleUpsertOverride(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireSuper(s, w, r)
		if !ok {
			return
		}

		var body struct {
			RoleID         string `json:"roleId"`
			WorkflowStepID string `json:"workflowStepId"`
			HasPermission  bool   `json:"hasPermission"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.RoleID == "" || body.WorkflowStepID == "" {
			respondWithError(w, http.StatusBadRequest, "roleId and workflowStepId are required")
			return
		}

		override, err := s.Workflows.UpsertOverride(body.RoleID, body.WorkflowStepID, body.HasPermission)
		audit.Log(audit.OverrideEvent{
			Actor:          actor.Subject,
			ClientIP:       actor.ClientIP(),
			RoleID:         body.RoleID,
			WorkflowStepID: body.WorkflowStepID,
			HasPermission:  body.HasPermission,
			Success:        err == nil,
			ErrorMessage:   errMessage(err),
		})
		if err != nil {
			respondWithAppError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, presentOverride(override))
	}
}
