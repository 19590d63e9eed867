package gorm

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskhub/rbac/pkg/model"
	"github.com/taskhub/rbac/pkg/store"
)

// Ensure PermissionsStore implements store.PermissionsStore
var _ store.PermissionsStore = (*PermissionsStore)(nil)

// PermissionsStore implements store.PermissionsStore using GORM
type PermissionsStore struct {
	db *gorm.DB
}

// NewPermissionsStore creates a new PermissionsStore
func NewPermissionsStore(db *gorm.DB) *PermissionsStore {
	return &PermissionsStore{db: db}
}

// ListPermissions returns all permissions sorted by (group, name)
func (s *PermissionsStore) ListPermissions() ([]store.Permission, error) {
	var rows []model.Permission
	if err := s.db.Order("permission_group ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return toStorePermissions(rows), nil
}

// GetPermission retrieves a permission by id
func (s *PermissionsStore) GetPermission(id string) (*store.Permission, error) {
	return s.getPermission("id = ?", id)
}

// GetPermissionByName retrieves a permission by name
func (s *PermissionsStore) GetPermissionByName(name string) (*store.Permission, error) {
	return s.getPermission("name = ?", name)
}

func (s *PermissionsStore) getPermission(cond string, arg string) (*store.Permission, error) {
	var row model.Permission
	err := s.db.Where(cond, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	p := toStorePermission(&row)
	return &p, nil
}

// FindPermissionsByIDs returns the subset of permissions whose ids exist
func (s *PermissionsStore) FindPermissionsByIDs(ids []string) ([]store.Permission, error) {
	return s.findPermissions("id IN ?", ids)
}

// FindPermissionsByNames returns the subset of permissions whose names exist
func (s *PermissionsStore) FindPermissionsByNames(names []string) ([]store.Permission, error) {
	return s.findPermissions("name IN ?", names)
}

func (s *PermissionsStore) findPermissions(cond string, args []string) ([]store.Permission, error) {
	if len(args) == 0 {
		return []store.Permission{}, nil
	}
	var rows []model.Permission
	if err := s.db.Where(cond, args).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find permissions: %w", err)
	}
	return toStorePermissions(rows), nil
}

// CreatePermission persists a new permission
func (s *PermissionsStore) CreatePermission(p *store.Permission) error {
	row := model.Permission{
		Name:        p.Name,
		Description: p.Description,
		Group:       p.Group,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return conflictOrInternal(err, "failed to create permission %q", p.Name)
	}
	p.ID = row.ID
	return nil
}

// CreatePermissions bulk-inserts permissions, skipping existing names
func (s *PermissionsStore) CreatePermissions(ps []store.Permission) error {
	if len(ps) == 0 {
		return nil
	}
	rows := make([]model.Permission, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, model.Permission{
			Name:        p.Name,
			Description: p.Description,
			Group:       p.Group,
		})
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to bulk-insert permissions: %w", err)
	}
	return nil
}

// UpdatePermission updates name, description and group
func (s *PermissionsStore) UpdatePermission(p *store.Permission) error {
	err := s.db.Model(&model.Permission{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":             p.Name,
		"description":      p.Description,
		"permission_group": p.Group,
	}).Error
	if err != nil {
		return conflictOrInternal(err, "failed to update permission %q", p.ID)
	}
	return nil
}

// DeletePermission removes a permission; role associations go via FK cascade
func (s *PermissionsStore) DeletePermission(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&model.Permission{}).Error; err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	return nil
}

func toStorePermission(row *model.Permission) store.Permission {
	return store.Permission{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Group:       row.Group,
	}
}

func toStorePermissions(rows []model.Permission) []store.Permission {
	out := make([]store.Permission, 0, len(rows))
	for i := range rows {
		out = append(out, toStorePermission(&rows[i]))
	}
	return out
}
