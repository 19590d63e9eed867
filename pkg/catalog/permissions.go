package catalog

import (
	"regexp"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/store"
)

// permissionNameRgx matches resource:action names: colon-separated tokens of
// word characters, dots and hyphens, e.g. "task:create" or
// "task:view:counts.own".
var permissionNameRgx = regexp.MustCompile(`^[\w.-]+(:[\w.-]+)+$`)

// ValidPermissionName reports whether name matches the resource:action
// pattern.
func ValidPermissionName(name string) bool {
	return permissionNameRgx.MatchString(name)
}

// CreatePermissionInput carries the fields for creating a permission.
type CreatePermissionInput struct {
	Name        string
	Description string
	Group       string
}

// UpdatePermissionInput carries the optional fields for updating a
// permission. Nil means "leave unchanged".
type UpdatePermissionInput struct {
	Name        *string
	Description *string
	Group       *string
}

// PermissionService manages the permission catalog.
type PermissionService struct {
	store store.Store
}

// NewPermissionService creates a PermissionService.
func NewPermissionService(st store.Store) *PermissionService {
	return &PermissionService{store: st}
}

// List returns all permissions sorted by (group, name).
func (s *PermissionService) List() ([]store.Permission, error) {
	return s.store.Permissions().ListPermissions()
}

// Get returns a permission by id.
func (s *PermissionService) Get(id string) (*store.Permission, error) {
	p, err := s.store.Permissions().GetPermission(id)
	if err != nil {
		return nil, apperror.Internal(err, "getting permission")
	}
	if p == nil {
		return nil, apperror.NotFound("permission %q not found", id)
	}
	return p, nil
}

// GetByName returns a permission by name.
func (s *PermissionService) GetByName(name string) (*store.Permission, error) {
	p, err := s.store.Permissions().GetPermissionByName(name)
	if err != nil {
		return nil, apperror.Internal(err, "getting permission")
	}
	if p == nil {
		return nil, apperror.NotFound("permission named %q not found", name)
	}
	return p, nil
}

// FindByNames returns the subset of permissions whose names exist. Unknown
// names are silently omitted; this is a lookup helper, not an error path.
func (s *PermissionService) FindByNames(names []string) ([]store.Permission, error) {
	return s.store.Permissions().FindPermissionsByNames(names)
}

// Create persists a new permission. The name must match the resource:action
// pattern; duplicate names surface as Conflict from the store's unique
// constraint.
func (s *PermissionService) Create(in CreatePermissionInput) (*store.Permission, error) {
	if !ValidPermissionName(in.Name) {
		return nil, apperror.InvalidInput("permission name %q does not match the resource:action pattern", in.Name)
	}
	p := &store.Permission{
		Name:        in.Name,
		Description: in.Description,
		Group:       in.Group,
	}
	if err := s.store.Permissions().CreatePermission(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies the provided fields to a permission.
func (s *PermissionService) Update(id string, in UpdatePermissionInput) (*store.Permission, error) {
	var updated *store.Permission
	err := s.store.Transaction(func(tx store.Store) error {
		p, err := tx.Permissions().GetPermission(id)
		if err != nil {
			return apperror.Internal(err, "getting permission")
		}
		if p == nil {
			return apperror.NotFound("permission %q not found", id)
		}

		if in.Name != nil && *in.Name != p.Name {
			if !ValidPermissionName(*in.Name) {
				return apperror.InvalidInput("permission name %q does not match the resource:action pattern", *in.Name)
			}
			existing, err := tx.Permissions().GetPermissionByName(*in.Name)
			if err != nil {
				return apperror.Internal(err, "checking permission name")
			}
			if existing != nil {
				return apperror.Conflict("permission named %q already exists", *in.Name)
			}
			p.Name = *in.Name
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Group != nil {
			p.Group = *in.Group
		}
		if err := tx.Permissions().UpdatePermission(p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a permission. The store cascades removal from every role's
// bundle.
func (s *PermissionService) Delete(id string) error {
	return s.store.Transaction(func(tx store.Store) error {
		p, err := tx.Permissions().GetPermission(id)
		if err != nil {
			return apperror.Internal(err, "getting permission")
		}
		if p == nil {
			return apperror.NotFound("permission %q not found", id)
		}
		if err := tx.Permissions().DeletePermission(id); err != nil {
			return apperror.Internal(err, "deleting permission")
		}
		return nil
	})
}
