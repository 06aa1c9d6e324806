package models

import (
	"time"
)

type Group struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:varchar(1000)" json:"description"`
	UserID      uint64     `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`

	// Relations
	Owner User   `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Tasks []Task `gorm:"foreignKey:GroupID" json:"tasks,omitempty"`
}

// TableName keeps the legacy table name; "groups" is a reserved word in MySQL.
func (Group) TableName() string {
	return "task_groups"
}
