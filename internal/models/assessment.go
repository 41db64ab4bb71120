package models

import "time"

// Assessment is one scoring event in an asset's ledger. Rows are immutable:
// the tier is computed against the thresholds in force at write time and
// frozen, so later threshold changes never rewrite history. There are no
// update or delete paths for this model.
type Assessment struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	AssetID uint `gorm:"not null;index"`

	AssessorID uint `gorm:"not null"`
	Assessor   User `gorm:"foreignKey:AssessorID"`

	Confidentiality int `gorm:"not null"`
	Integrity       int `gorm:"not null"`
	Availability    int `gorm:"not null"`
	Authenticity    int `gorm:"not null"`
	NonRepudiation  int `gorm:"not null"`

	TotalScore int    `gorm:"not null"`
	Tier       Tier   `gorm:"type:varchar(20);not null"`
	Note       string `gorm:"type:text"`
}
