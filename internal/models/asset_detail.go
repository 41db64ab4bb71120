package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// AssetDetail is the tagged union of per-category payloads. The asset's
// CategoryID is the discriminant; adding a category means adding a variant
// here, not widening the assets table.
type AssetDetail interface {
	isAssetDetail()
}

type HardwareDetail struct {
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
}

type SoftwareDetail struct {
	Version       string `json:"version"`
	LicenseType   string `json:"license_type"`
	LicenseExpiry string `json:"license_expiry,omitempty"`
}

type SupportDetail struct {
	Function string `json:"function"`
	Capacity string `json:"capacity,omitempty"`
}

type DataDetail struct {
	Format        string `json:"format"`
	StorageMedium string `json:"storage_medium"`
	Source        string `json:"source,omitempty"`
}

type PersonnelDetail struct {
	Position string `json:"position"`
	Unit     string `json:"unit"`
}

func (HardwareDetail) isAssetDetail()  {}
func (SoftwareDetail) isAssetDetail()  {}
func (SupportDetail) isAssetDetail()   {}
func (DataDetail) isAssetDetail()      {}
func (PersonnelDetail) isAssetDetail() {}

// DecodeDetail parses raw into the variant matching categoryID. A nil or
// empty payload yields the variant's zero value.
func DecodeDetail(categoryID uint, raw json.RawMessage) (AssetDetail, error) {
	decode := func(v AssetDetail) (AssetDetail, error) {
		if len(raw) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, fmt.Errorf("decode asset detail: %w", err)
		}
		return v, nil
	}

	switch categoryID {
	case CategoryPerangkatKeras:
		return decode(&HardwareDetail{})
	case CategoryPerangkatLunak:
		return decode(&SoftwareDetail{})
	case CategorySaranaPendukung:
		return decode(&SupportDetail{})
	case CategoryDataInformasi:
		return decode(&DataDetail{})
	case CategorySDM:
		return decode(&PersonnelDetail{})
	}
	return nil, fmt.Errorf("no detail variant for category %d", categoryID)
}

// EncodeDetail serializes a variant for storage in the assets.detail column.
func EncodeDetail(d AssetDetail) (datatypes.JSON, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode asset detail: %w", err)
	}
	return datatypes.JSON(b), nil
}

// DecodedDetail returns the asset's stored payload as its typed variant.
func (a *Asset) DecodedDetail() (AssetDetail, error) {
	return DecodeDetail(a.CategoryID, json.RawMessage(a.Detail))
}
