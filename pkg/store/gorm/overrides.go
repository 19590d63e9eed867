package gorm

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskhub/rbac/pkg/model"
	"github.com/taskhub/rbac/pkg/store"
)

// Ensure OverridesStore implements store.OverridesStore
var _ store.OverridesStore = (*OverridesStore)(nil)

// OverridesStore implements store.OverridesStore using GORM
type OverridesStore struct {
	db *gorm.DB
}

// NewOverridesStore creates a new OverridesStore
func NewOverridesStore(db *gorm.DB) *OverridesStore {
	return &OverridesStore{db: db}
}

// ListOverridesForSteps returns all overrides touching the given steps
func (s *OverridesStore) ListOverridesForSteps(stepIDs []string) ([]store.StepOverride, error) {
	if len(stepIDs) == 0 {
		return []store.StepOverride{}, nil
	}
	var rows []model.RoleWorkflowStepPermission
	if err := s.db.Where("workflow_step_id IN ?", stepIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list step overrides: %w", err)
	}
	overrides := make([]store.StepOverride, 0, len(rows))
	for _, row := range rows {
		overrides = append(overrides, store.StepOverride{
			RoleID:         row.RoleID,
			WorkflowStepID: row.WorkflowStepID,
			HasPermission:  row.HasPermission,
		})
	}
	return overrides, nil
}

// GetOverride returns the override for a (role, step) pair
func (s *OverridesStore) GetOverride(roleID, stepID string) (*store.StepOverride, error) {
	var row model.RoleWorkflowStepPermission
	err := s.db.Where("role_id = ? AND workflow_step_id = ?", roleID, stepID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step override: %w", err)
	}
	return &store.StepOverride{
		RoleID:         row.RoleID,
		WorkflowStepID: row.WorkflowStepID,
		HasPermission:  row.HasPermission,
	}, nil
}

// UpsertOverride inserts or updates the override for the pair
func (s *OverridesStore) UpsertOverride(o *store.StepOverride) error {
	row := model.RoleWorkflowStepPermission{
		RoleID:         o.RoleID,
		WorkflowStepID: o.WorkflowStepID,
		HasPermission:  o.HasPermission,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "workflow_step_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"has_permission", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert step override: %w", err)
	}
	return nil
}
