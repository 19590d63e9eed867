package model

import "time"

// WorkflowStep is one step of a workflow. StepOrder is the sort key for the
// canonical step sequence; it need not be contiguous. PermissionIdentifier
// names the permission the step represents and may or may not exist in the
// permission catalog.
type WorkflowStep struct {
	ID                   string    `gorm:"column:id;primaryKey;default:gen_random_uuid()"`
	WorkflowID           string    `gorm:"column:workflow_id;not null"`
	Name                 string    `gorm:"column:name;not null"`
	Description          string    `gorm:"column:description"`
	StepOrder            int       `gorm:"column:step_order;not null"`
	PermissionIdentifier string    `gorm:"column:permission_identifier;uniqueIndex;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkflowStep) TableName() string {
	return "workflow_steps"
}
