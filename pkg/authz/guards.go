package authz

import (
	"strings"

	"github.com/taskhub/rbac/pkg/apperror"
)

// DefaultSuperRole is the distinguished role name that bypasses role-name
// checks. Deployments can override it via config (super_role_name).
const DefaultSuperRole = "admin"

// RoleGate allows or denies based on the actor's role name.
type RoleGate struct {
	superRole string
}

// NewRoleGate creates a RoleGate. An empty superRole falls back to
// DefaultSuperRole.
func NewRoleGate(superRole string) *RoleGate {
	if superRole == "" {
		superRole = DefaultSuperRole
	}
	return &RoleGate{superRole: superRole}
}

// Check allows when no role names are declared, or when the actor's role
// name case-insensitively matches a declared name or the super role. An
// actor without a role is always denied once a restriction is declared.
func (g *RoleGate) Check(requiredRoles []string, actorRoleName string) error {
	if len(requiredRoles) == 0 {
		return nil
	}
	if actorRoleName == "" {
		return apperror.Forbidden("actor has no role; required roles: %s",
			strings.Join(requiredRoles, ", "))
	}
	if strings.EqualFold(actorRoleName, g.superRole) {
		return nil
	}
	for _, required := range requiredRoles {
		if strings.EqualFold(actorRoleName, required) {
			return nil
		}
	}
	return apperror.Forbidden("role %q is not authorized; required roles: %s",
		actorRoleName, strings.Join(requiredRoles, ", "))
}

// PermissionGate allows or denies based on the actor's permission bundle.
type PermissionGate struct {
	decider *Decider
}

// NewPermissionGate creates a PermissionGate backed by the given Decider.
func NewPermissionGate(decider *Decider) *PermissionGate {
	return &PermissionGate{decider: decider}
}

// Check allows when no permissions are declared, otherwise requires the
// actor's role to hold every declared permission. The denial names the
// missing set for diagnostics; callers must not leak it to untrusted
// clients.
func (g *PermissionGate) Check(requiredPermissions []string, actorRoleID string) error {
	if len(requiredPermissions) == 0 {
		return nil
	}
	missing, err := g.decider.MissingPermissions(actorRoleID, requiredPermissions)
	if err != nil {
		return apperror.Internal(err, "permission check failed")
	}
	if len(missing) > 0 {
		return apperror.Forbidden("missing required permissions: %s",
			strings.Join(missing, ", "))
	}
	return nil
}
