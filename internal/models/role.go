package models

type RoleName string

const (
	RoleUser  RoleName = "ROLE_USER"
	RoleAdmin RoleName = "ROLE_ADMIN"
)

type Role struct {
	ID          uint64   `gorm:"primarykey" json:"id"`
	Name        RoleName `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
	Description string   `gorm:"type:varchar(255)" json:"description"`
}
