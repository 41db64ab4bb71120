package models

import "time"

// ActivityLog is the durable audit trail. UserID is a weak reference: when a
// user account is removed it is nulled, never cascaded, and the username
// snapshot captured at write time remains the permanent record of who acted.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	UserID *uint `gorm:"index"`
	User   *User `gorm:"constraint:OnDelete:SET NULL"`

	UsernameSnapshot string `gorm:"size:50;not null"`
	Activity         string `gorm:"type:text;not null"`
	IPAddress        string `gorm:"size:45"`
	UserAgent        string `gorm:"size:255"`
}
