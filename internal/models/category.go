package models

// Category is the asset-type taxonomy (not to be confused with the computed
// security tier). Rows are static reference data seeded at migration time;
// the code prefix namespaces the per-category asset-code sequence.
type Category struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;uniqueIndex;not null"`
	CodePrefix string `gorm:"size:4;uniqueIndex;not null"`
}

// Seeded category IDs.
const (
	CategoryPerangkatKeras  uint = 1
	CategoryPerangkatLunak  uint = 2
	CategorySaranaPendukung uint = 3
	CategoryDataInformasi   uint = 4
	CategorySDM             uint = 5
)
