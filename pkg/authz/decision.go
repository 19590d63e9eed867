package authz

import (
	"github.com/taskhub/rbac/pkg/store"
)

// Decider answers permission queries against the current role catalog.
type Decider struct {
	roles store.RolesStore
}

// NewDecider creates a Decider reading from the given roles store.
func NewDecider(roles store.RolesStore) *Decider {
	return &Decider{roles: roles}
}

// HasPermission reports whether the role currently holds the named
// permission. An empty or unknown role id yields false, not an error.
func (d *Decider) HasPermission(roleID, permissionName string) (bool, error) {
	bundle, err := d.loadBundle(roleID)
	if err != nil {
		return false, err
	}
	if bundle == nil {
		return false, nil
	}
	_, ok := bundle[permissionName]
	return ok, nil
}

// HasAllPermissions reports whether the role holds every named permission.
// An empty requirement list is vacuously true for every role.
func (d *Decider) HasAllPermissions(roleID string, permissionNames []string) (bool, error) {
	if len(permissionNames) == 0 {
		return true, nil
	}
	bundle, err := d.loadBundle(roleID)
	if err != nil {
		return false, err
	}
	if bundle == nil {
		return false, nil
	}
	for _, name := range permissionNames {
		if _, ok := bundle[name]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// HasAnyPermission reports whether the role holds at least one of the named
// permissions. An empty requirement list reads as "no restriction" and is
// true for every role; see the package documentation.
func (d *Decider) HasAnyPermission(roleID string, permissionNames []string) (bool, error) {
	if len(permissionNames) == 0 {
		return true, nil
	}
	bundle, err := d.loadBundle(roleID)
	if err != nil {
		return false, err
	}
	if bundle == nil {
		return false, nil
	}
	for _, name := range permissionNames {
		if _, ok := bundle[name]; ok {
			return true, nil
		}
	}
	return false, nil
}

// MissingPermissions returns the subset of permissionNames the role does not
// currently hold. An unknown role is missing everything.
func (d *Decider) MissingPermissions(roleID string, permissionNames []string) ([]string, error) {
	if len(permissionNames) == 0 {
		return nil, nil
	}
	bundle, err := d.loadBundle(roleID)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, name := range permissionNames {
		if bundle == nil {
			missing = append(missing, name)
			continue
		}
		if _, ok := bundle[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// loadBundle re-fetches the role's permission names. Returns nil for an
// empty role id or a role that no longer exists.
func (d *Decider) loadBundle(roleID string) (map[string]struct{}, error) {
	if roleID == "" {
		return nil, nil
	}
	role, err := d.roles.GetRole(roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, nil
	}
	bundle := make(map[string]struct{}, len(role.Permissions))
	for _, p := range role.Permissions {
		bundle[p.Name] = struct{}{}
	}
	return bundle, nil
}
