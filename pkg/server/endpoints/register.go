package endpoints

import (
	"github.com/taskhub/rbac/pkg/server"
)

// RegisterAll registers all admin API endpoints on the server's router.
func RegisterAll(s *server.Server) {
	RegisterStatusEndpoints(s)
	RegisterRolesEndpoints(s)
	RegisterPermissionsEndpoints(s)
	RegisterWorkflowsEndpoints(s)
	RegisterSeedEndpoints(s)
}
