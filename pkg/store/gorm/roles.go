package gorm

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskhub/rbac/pkg/model"
	"github.com/taskhub/rbac/pkg/store"
)

// Ensure RolesStore implements store.RolesStore
var _ store.RolesStore = (*RolesStore)(nil)

// RolesStore implements store.RolesStore using GORM
type RolesStore struct {
	db *gorm.DB
}

// NewRolesStore creates a new RolesStore
func NewRolesStore(db *gorm.DB) *RolesStore {
	return &RolesStore{db: db}
}

// ListRoles returns all roles with permissions attached, sorted by name
func (s *RolesStore) ListRoles() ([]store.Role, error) {
	var rows []model.Role
	if err := s.db.Preload("Permissions").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	roles := make([]store.Role, 0, len(rows))
	for i := range rows {
		roles = append(roles, toStoreRole(&rows[i]))
	}
	return roles, nil
}

// GetRole retrieves a role with its permissions
func (s *RolesStore) GetRole(id string) (*store.Role, error) {
	return s.getRole("id = ?", id)
}

// GetRoleByName retrieves a role with its permissions by name
func (s *RolesStore) GetRoleByName(name string) (*store.Role, error) {
	return s.getRole("name = ?", name)
}

func (s *RolesStore) getRole(cond string, arg string) (*store.Role, error) {
	var row model.Role
	err := s.db.Preload("Permissions").Where(cond, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	role := toStoreRole(&row)
	return &role, nil
}

// CreateRole persists a new role and its permission set
func (s *RolesStore) CreateRole(role *store.Role) error {
	row := model.Role{
		Name:         role.Name,
		Description:  role.Description,
		IsSystemRole: role.IsSystemRole,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Create(&row).Error; err != nil {
			return err
		}
		for _, p := range role.Permissions {
			if err := addJoinRow(tx, row.ID, p.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return conflictOrInternal(err, "failed to create role %q", role.Name)
	}
	role.ID = row.ID
	return nil
}

// UpdateRole updates the role's name, description and system flag
func (s *RolesStore) UpdateRole(role *store.Role) error {
	err := s.db.Model(&model.Role{}).Where("id = ?", role.ID).Updates(map[string]interface{}{
		"name":           role.Name,
		"description":    role.Description,
		"is_system_role": role.IsSystemRole,
	}).Error
	if err != nil {
		return conflictOrInternal(err, "failed to update role %q", role.ID)
	}
	return nil
}

// ReplacePermissions replaces the role's entire permission set
func (s *RolesStore) ReplacePermissions(roleID string, permissionIDs []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, roleID).Error; err != nil {
			return fmt.Errorf("failed to clear role permissions: %w", err)
		}
		for _, pid := range permissionIDs {
			if err := addJoinRow(tx, roleID, pid); err != nil {
				return fmt.Errorf("failed to assign permission %q: %w", pid, err)
			}
		}
		return nil
	})
}

// AddPermission grants a permission to a role (no-op if already granted)
func (s *RolesStore) AddPermission(roleID, permissionID string) error {
	return addJoinRow(s.db, roleID, permissionID)
}

// RemovePermission revokes a permission from a role
func (s *RolesStore) RemovePermission(roleID, permissionID string) (bool, error) {
	tx := s.db.Exec(`DELETE FROM role_permissions WHERE role_id = ? AND permission_id = ?`,
		roleID, permissionID)
	if tx.Error != nil {
		return false, fmt.Errorf("failed to remove role permission: %w", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

// DeleteRole removes a role; join rows and overrides go with it via FKs
func (s *RolesStore) DeleteRole(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&model.Role{}).Error; err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

func addJoinRow(tx *gorm.DB, roleID, permissionID string) error {
	return tx.Exec(`
		INSERT INTO role_permissions (role_id, permission_id)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`, roleID, permissionID).Error
}

func toStoreRole(row *model.Role) store.Role {
	role := store.Role{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		IsSystemRole: row.IsSystemRole,
		Permissions:  make([]store.Permission, 0, len(row.Permissions)),
	}
	for _, p := range row.Permissions {
		role.Permissions = append(role.Permissions, toStorePermission(&p))
	}
	return role
}
