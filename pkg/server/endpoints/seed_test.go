package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/rbac/pkg/workflow"
)

func TestSeedEndpoint(t *testing.T) {
	s, mem := newTestServer(t)

	recorder := doJSON(t, s, "POST", "/seed", adminToken(t), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		PermissionsCreated int  `json:"permissionsCreated"`
		RolesCreated       int  `json:"rolesCreated"`
		RolesRepaired      int  `json:"rolesRepaired"`
		Changed            bool `json:"changed"`
	}
	decode(t, recorder, &res)
	assert.True(t, res.Changed)
	assert.Greater(t, res.PermissionsCreated, 0)
	assert.Equal(t, 4, res.RolesCreated)

	wf, err := mem.Workflows().GetWorkflowBySlug(workflow.DefaultWorkflowSlug)
	require.NoError(t, err)
	require.NotNil(t, wf)
	assert.Len(t, wf.Steps, 12)

	// Reseeding converges without writing.
	recorder = doJSON(t, s, "POST", "/seed", adminToken(t), nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	decode(t, recorder, &res)
	assert.False(t, res.Changed)
}

func TestSeedRequiresSuperRole(t *testing.T) {
	s, _ := newTestServer(t)

	recorder := doJSON(t, s, "POST", "/seed", token(t, "bob", "role-user", "user"), nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestHealthEndpointIsUnauthenticated(t *testing.T) {
	s, _ := newTestServer(t)

	recorder := doJSON(t, s, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ok")
}
