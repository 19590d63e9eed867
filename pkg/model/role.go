package model

import "time"

// Role is a named, reusable bundle of permissions assigned to users.
// System roles are protected from administrative edits; only the seeder's
// repair path may change them.
type Role struct {
	ID           string       `gorm:"column:id;primaryKey;default:gen_random_uuid()"`
	Name         string       `gorm:"column:name;uniqueIndex;size:50;not null"`
	Description  string       `gorm:"column:description"`
	IsSystemRole bool         `gorm:"column:is_system_role;not null;default:false"`
	Permissions  []Permission `gorm:"many2many:role_permissions;joinForeignKey:role_id;joinReferences:permission_id"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}
