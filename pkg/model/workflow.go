package model

import "time"

// Workflow is an ordered business process (e.g. task creation) whose steps
// are visualized against roles in the admin UI.
type Workflow struct {
	ID          string         `gorm:"column:id;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"column:name;uniqueIndex;not null"`
	Slug        string         `gorm:"column:slug;uniqueIndex;not null"`
	Description string         `gorm:"column:description"`
	Steps       []WorkflowStep `gorm:"foreignKey:WorkflowID"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Workflow) TableName() string {
	return "workflows"
}
