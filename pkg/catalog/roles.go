package catalog

import (
	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/store"
)

// CreateRoleInput carries the fields for creating a role. Externally created
// roles are never system roles.
type CreateRoleInput struct {
	Name          string
	Description   string
	PermissionIDs []string
}

// UpdateRoleInput carries the optional fields for updating a role. Nil means
// "leave unchanged"; a non-nil empty PermissionIDs clears all permissions.
type UpdateRoleInput struct {
	Name          *string
	Description   *string
	PermissionIDs *[]string
}

// RoleService manages the role catalog.
type RoleService struct {
	store store.Store
}

// NewRoleService creates a RoleService.
func NewRoleService(st store.Store) *RoleService {
	return &RoleService{store: st}
}

// List returns all roles with their permission bundles, sorted by name.
func (s *RoleService) List() ([]store.Role, error) {
	return s.store.Roles().ListRoles()
}

// Get returns a role with its permission bundle.
func (s *RoleService) Get(id string) (*store.Role, error) {
	role, err := s.store.Roles().GetRole(id)
	if err != nil {
		return nil, apperror.Internal(err, "getting role")
	}
	if role == nil {
		return nil, apperror.NotFound("role %q not found", id)
	}
	return role, nil
}

// GetByName returns a role with its permission bundle by name.
func (s *RoleService) GetByName(name string) (*store.Role, error) {
	role, err := s.store.Roles().GetRoleByName(name)
	if err != nil {
		return nil, apperror.Internal(err, "getting role")
	}
	if role == nil {
		return nil, apperror.NotFound("role named %q not found", name)
	}
	return role, nil
}

// Create persists a new non-system role with the resolved permission set.
func (s *RoleService) Create(in CreateRoleInput) (*store.Role, error) {
	var created *store.Role
	err := s.store.Transaction(func(tx store.Store) error {
		existing, err := tx.Roles().GetRoleByName(in.Name)
		if err != nil {
			return apperror.Internal(err, "checking role name")
		}
		if existing != nil {
			return apperror.Conflict("role named %q already exists", in.Name)
		}

		permissions, err := resolvePermissionIDs(tx, in.PermissionIDs)
		if err != nil {
			return err
		}

		role := &store.Role{
			Name:        in.Name,
			Description: in.Description,
			Permissions: permissions,
		}
		if err := tx.Roles().CreateRole(role); err != nil {
			return err
		}
		created = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the provided fields to a non-system role. A present-but-
// empty permission id list clears the role's bundle.
func (s *RoleService) Update(id string, in UpdateRoleInput) (*store.Role, error) {
	err := s.store.Transaction(func(tx store.Store) error {
		role, err := tx.Roles().GetRole(id)
		if err != nil {
			return apperror.Internal(err, "getting role")
		}
		if role == nil {
			return apperror.NotFound("role %q not found", id)
		}
		if role.IsSystemRole {
			return apperror.Forbidden("system role %q cannot be modified", role.Name)
		}

		if in.Name != nil && *in.Name != role.Name {
			existing, err := tx.Roles().GetRoleByName(*in.Name)
			if err != nil {
				return apperror.Internal(err, "checking role name")
			}
			if existing != nil {
				return apperror.Conflict("role named %q already exists", *in.Name)
			}
			role.Name = *in.Name
		}
		if in.Description != nil {
			role.Description = *in.Description
		}
		if err := tx.Roles().UpdateRole(role); err != nil {
			return err
		}

		if in.PermissionIDs != nil {
			permissions, err := resolvePermissionIDs(tx, *in.PermissionIDs)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(permissions))
			for _, p := range permissions {
				ids = append(ids, p.ID)
			}
			if err := tx.Roles().ReplacePermissions(role.ID, ids); err != nil {
				return apperror.Internal(err, "replacing role permissions")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes a non-system role. Users referencing the role are handled
// by the store's FK rules, not here.
func (s *RoleService) Delete(id string) error {
	return s.store.Transaction(func(tx store.Store) error {
		role, err := tx.Roles().GetRole(id)
		if err != nil {
			return apperror.Internal(err, "getting role")
		}
		if role == nil {
			return apperror.NotFound("role %q not found", id)
		}
		if role.IsSystemRole {
			return apperror.Forbidden("system role %q cannot be deleted", role.Name)
		}
		if err := tx.Roles().DeleteRole(id); err != nil {
			return apperror.Internal(err, "deleting role")
		}
		return nil
	})
}

// AddPermission grants one permission to a non-system role. Granting an
// already-held permission is a no-op success.
func (s *RoleService) AddPermission(roleID, permissionID string) (*store.Role, error) {
	err := s.store.Transaction(func(tx store.Store) error {
		role, err := tx.Roles().GetRole(roleID)
		if err != nil {
			return apperror.Internal(err, "getting role")
		}
		if role == nil {
			return apperror.NotFound("role %q not found", roleID)
		}
		if role.IsSystemRole {
			return apperror.Forbidden("permissions of system role %q cannot be modified", role.Name)
		}
		permission, err := tx.Permissions().GetPermission(permissionID)
		if err != nil {
			return apperror.Internal(err, "getting permission")
		}
		if permission == nil {
			return apperror.NotFound("permission %q not found", permissionID)
		}
		if err := tx.Roles().AddPermission(roleID, permissionID); err != nil {
			return apperror.Internal(err, "granting permission")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(roleID)
}

// RemovePermission revokes one permission from a non-system role. Revoking a
// permission the role does not hold is NotFound for that pairing.
func (s *RoleService) RemovePermission(roleID, permissionID string) (*store.Role, error) {
	err := s.store.Transaction(func(tx store.Store) error {
		role, err := tx.Roles().GetRole(roleID)
		if err != nil {
			return apperror.Internal(err, "getting role")
		}
		if role == nil {
			return apperror.NotFound("role %q not found", roleID)
		}
		if role.IsSystemRole {
			return apperror.Forbidden("permissions of system role %q cannot be modified", role.Name)
		}
		removed, err := tx.Roles().RemovePermission(roleID, permissionID)
		if err != nil {
			return apperror.Internal(err, "revoking permission")
		}
		if !removed {
			return apperror.NotFound("permission %q is not granted to role %q", permissionID, role.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(roleID)
}

// resolvePermissionIDs loads the given permission ids, failing with
// InvalidInput if any id does not resolve. An empty list is allowed.
func resolvePermissionIDs(tx store.Store, ids []string) ([]store.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	permissions, err := tx.Permissions().FindPermissionsByIDs(ids)
	if err != nil {
		return nil, apperror.Internal(err, "resolving permission ids")
	}
	if len(permissions) != len(ids) {
		return nil, apperror.InvalidInput("one or more permission ids are invalid")
	}
	return permissions, nil
}
