package model

import "time"

// RoleWorkflowStepPermission is an explicit allow/deny for one role on one
// workflow step. It is an axis separate from the role's permission bundle
// and exists only while both the role and the step exist (FKs cascade).
type RoleWorkflowStepPermission struct {
	RoleID         string    `gorm:"column:role_id;primaryKey"`
	WorkflowStepID string    `gorm:"column:workflow_step_id;primaryKey"`
	HasPermission  bool      `gorm:"column:has_permission;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (RoleWorkflowStepPermission) TableName() string {
	return "role_workflow_step_permissions"
}
