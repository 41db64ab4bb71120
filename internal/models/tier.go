package models

// Tier is the computed security-value classification of an asset.
type Tier string

const (
	TierTinggi Tier = "Tinggi"
	TierSedang Tier = "Sedang"
	TierRendah Tier = "Rendah"

	// TierBelumDinilai is a read-side label for assets without any
	// assessment; it is never stored on an Assessment row.
	TierBelumDinilai Tier = "Belum Dinilai"
)
