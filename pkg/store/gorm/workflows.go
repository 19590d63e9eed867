package gorm

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskhub/rbac/pkg/model"
	"github.com/taskhub/rbac/pkg/store"
)

// Ensure WorkflowsStore implements store.WorkflowsStore
var _ store.WorkflowsStore = (*WorkflowsStore)(nil)

// WorkflowsStore implements store.WorkflowsStore using GORM
type WorkflowsStore struct {
	db *gorm.DB
}

// NewWorkflowsStore creates a new WorkflowsStore
func NewWorkflowsStore(db *gorm.DB) *WorkflowsStore {
	return &WorkflowsStore{db: db}
}

// GetWorkflowBySlug retrieves a workflow with steps sorted by step order
func (s *WorkflowsStore) GetWorkflowBySlug(slug string) (*store.Workflow, error) {
	var row model.Workflow
	err := s.db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("step_order ASC")
	}).Where("slug = ?", slug).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	wf := store.Workflow{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		Steps:       make([]store.WorkflowStep, 0, len(row.Steps)),
	}
	for i := range row.Steps {
		wf.Steps = append(wf.Steps, toStoreStep(&row.Steps[i]))
	}
	return &wf, nil
}

// GetStep retrieves a workflow step by id
func (s *WorkflowsStore) GetStep(id string) (*store.WorkflowStep, error) {
	var row model.WorkflowStep
	err := s.db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow step: %w", err)
	}
	step := toStoreStep(&row)
	return &step, nil
}

// CreateWorkflow persists a workflow together with its steps
func (s *WorkflowsStore) CreateWorkflow(wf *store.Workflow) error {
	row := model.Workflow{
		Name:        wf.Name,
		Slug:        wf.Slug,
		Description: wf.Description,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Steps").Create(&row).Error; err != nil {
			return err
		}
		for i := range wf.Steps {
			stepRow := model.WorkflowStep{
				WorkflowID:           row.ID,
				Name:                 wf.Steps[i].Name,
				Description:          wf.Steps[i].Description,
				StepOrder:            wf.Steps[i].StepOrder,
				PermissionIdentifier: wf.Steps[i].PermissionIdentifier,
			}
			if err := tx.Create(&stepRow).Error; err != nil {
				return err
			}
			wf.Steps[i].ID = stepRow.ID
			wf.Steps[i].WorkflowID = row.ID
		}
		return nil
	})
	if err != nil {
		return conflictOrInternal(err, "failed to create workflow %q", wf.Slug)
	}
	wf.ID = row.ID
	return nil
}

func toStoreStep(row *model.WorkflowStep) store.WorkflowStep {
	return store.WorkflowStep{
		ID:                   row.ID,
		WorkflowID:           row.WorkflowID,
		Name:                 row.Name,
		Description:          row.Description,
		StepOrder:            row.StepOrder,
		PermissionIdentifier: row.PermissionIdentifier,
	}
}
