package models

import (
	"time"

	"gorm.io/datatypes"
)

type AssetStatus string

const (
	StatusAktif      AssetStatus = "aktif"
	StatusNonaktif   AssetStatus = "nonaktif"
	StatusDihapuskan AssetStatus = "dihapuskan"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case StatusAktif, StatusNonaktif, StatusDihapuskan:
		return true
	}
	return false
}

// Asset is a protected IT asset. Code is assigned once at creation and never
// changes; CurrentTier/CurrentTotalScore mirror the latest Assessment and are
// updated in the same transaction that appends it. Assets are retired via
// Status, never physically deleted.
type Asset struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Code       string `gorm:"size:20;uniqueIndex;not null"`
	CategoryID uint   `gorm:"not null;index"`
	Category   Category

	Name     string      `gorm:"size:255;not null"`
	Location string      `gorm:"size:255"`
	Owner    string      `gorm:"size:255"` // penanggung jawab
	Status   AssetStatus `gorm:"type:varchar(20);not null;default:aktif"`

	CurrentTier       *Tier `gorm:"type:varchar(20)"`
	CurrentTotalScore *int

	// Detail holds the per-category variant payload, see asset_detail.go.
	Detail datatypes.JSON `gorm:"type:jsonb"`

	Assessments []Assessment
}

// DisplayTier resolves the denormalized tier for presentation: an asset with
// no assessment yet reads as Belum Dinilai.
func (a *Asset) DisplayTier() Tier {
	if a.CurrentTier == nil {
		return TierBelumDinilai
	}
	return *a.CurrentTier
}
