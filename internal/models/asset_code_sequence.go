package models

// AssetCodeSequence is the per-category counter behind code generation.
// LastNumber only ever grows; issued numbers are never reused, even when the
// asset that received one is later retired.
type AssetCodeSequence struct {
	CategoryID uint `gorm:"primaryKey"`
	LastNumber int  `gorm:"not null"`
}
