package models

import "time"

type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleManajerAset UserRole = "manajer_aset"
	RoleAuditor     UserRole = "auditor"
)

// User rows are hard-deleted; the activity log keeps its own username
// snapshot, so no soft-delete column here.
type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string   `gorm:"uniqueIndex;size:50;not null"`
	FullName     string   `gorm:"size:255"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
}
