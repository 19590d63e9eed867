package model

import "time"

// Permission is an atomic capability in resource:action form,
// e.g. "task:create" or "user:edit:own_profile". Group is a free-text
// category used only for display grouping.
type Permission struct {
	ID          string    `gorm:"column:id;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"column:name;uniqueIndex;size:100;not null"`
	Description string    `gorm:"column:description"`
	Group       string    `gorm:"column:permission_group;size:50"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}
