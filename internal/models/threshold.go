package models

import "time"

// ThresholdConfig is the process-wide classification threshold pair. A single
// row is seeded at migration; administrative updates replace it in place and
// affect only future classifications.
type ThresholdConfig struct {
	ID        uint `gorm:"primaryKey"`
	UpdatedAt time.Time

	HighThreshold   int `gorm:"not null"`
	MediumThreshold int `gorm:"not null"`

	UpdatedBy *uint
}
