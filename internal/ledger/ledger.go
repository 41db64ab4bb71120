// Package ledger owns the append-only assessment history. Each append writes
// an immutable Assessment row and the owning asset's denormalized
// current-tier fields in one transaction, so readers never observe one
// without the other.
package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/classification"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

// DefaultInitialNote is used for the implicit first assessment when the
// request carries no note.
const DefaultInitialNote = "Penilaian awal"

type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Append records a new assessment for the asset in its own transaction.
func (l *Ledger) Append(ctx context.Context, assetID, assessorID uint, scores classification.Scores, note string) (*models.Assessment, error) {
	if err := scores.Validate(); err != nil {
		return nil, err
	}

	var rec *models.Assessment
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = l.AppendWith(tx, assetID, assessorID, scores, note)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// AppendWith performs the append inside a caller-owned transaction; the asset
// write orchestrator uses it to land the asset row and its first assessment
// atomically.
func (l *Ledger) AppendWith(tx *gorm.DB, assetID, assessorID uint, scores classification.Scores, note string) (*models.Assessment, error) {
	if err := scores.Validate(); err != nil {
		return nil, err
	}

	// Lock the asset row so a concurrent append cannot interleave between
	// the assessment insert and the denormalized update.
	var asset models.Asset
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("asset", assetID)
		}
		return nil, apperr.Dependency("load asset", err)
	}

	th, err := currentThresholds(tx)
	if err != nil {
		return nil, err
	}

	// The tier is frozen here; later threshold changes never touch it.
	total := scores.Total()
	rec := models.Assessment{
		AssetID:         assetID,
		AssessorID:      assessorID,
		Confidentiality: scores.Confidentiality,
		Integrity:       scores.Integrity,
		Availability:    scores.Availability,
		Authenticity:    scores.Authenticity,
		NonRepudiation:  scores.NonRepudiation,
		TotalScore:      total,
		Tier:            classification.Classify(scores, th),
		Note:            note,
	}
	if err := tx.Create(&rec).Error; err != nil {
		return nil, apperr.Dependency("append assessment", err)
	}

	updates := map[string]any{
		"current_tier":        rec.Tier,
		"current_total_score": total,
	}
	if err := tx.Model(&models.Asset{}).Where("id = ?", assetID).Updates(updates).Error; err != nil {
		return nil, apperr.Dependency("update asset classification", err)
	}
	return &rec, nil
}

// History returns the asset's full assessment ledger, newest first, ties on
// created_at broken by id.
func (l *Ledger) History(ctx context.Context, assetID uint) ([]models.Assessment, error) {
	db := l.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Asset{}).Where("id = ?", assetID).Count(&count).Error; err != nil {
		return nil, apperr.Dependency("load asset", err)
	}
	if count == 0 {
		return nil, apperr.NotFound("asset", assetID)
	}

	var history []models.Assessment
	err := db.Where("asset_id = ?", assetID).
		Preload("Assessor").
		Order("created_at DESC, id DESC").
		Find(&history).Error
	if err != nil {
		return nil, apperr.Dependency("load assessment history", err)
	}
	return history, nil
}

// Thresholds returns the thresholds currently in force.
func (l *Ledger) Thresholds(ctx context.Context) (classification.Thresholds, error) {
	return currentThresholds(l.db.WithContext(ctx))
}

// UpdateThresholds replaces the active threshold pair. Only future
// classifications are affected; stored assessments keep their frozen tier.
func (l *Ledger) UpdateThresholds(ctx context.Context, th classification.Thresholds, updatedBy uint) error {
	if err := th.Validate(); err != nil {
		return err
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cfg models.ThresholdConfig
		err := tx.Order("id asc").First(&cfg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cfg = models.ThresholdConfig{
				HighThreshold:   th.High,
				MediumThreshold: th.Medium,
				UpdatedBy:       &updatedBy,
			}
			if err := tx.Create(&cfg).Error; err != nil {
				return apperr.Dependency("create threshold config", err)
			}
			return nil
		}
		if err != nil {
			return apperr.Dependency("load threshold config", err)
		}

		updates := map[string]any{
			"high_threshold":   th.High,
			"medium_threshold": th.Medium,
			"updated_by":       updatedBy,
		}
		if err := tx.Model(&cfg).Updates(updates).Error; err != nil {
			return apperr.Dependency("update threshold config", err)
		}
		return nil
	})
}

func currentThresholds(tx *gorm.DB) (classification.Thresholds, error) {
	var cfg models.ThresholdConfig
	err := tx.Order("id asc").First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return classification.DefaultThresholds, nil
	}
	if err != nil {
		return classification.Thresholds{}, apperr.Dependency("load threshold config", err)
	}
	return classification.Thresholds{High: cfg.HighThreshold, Medium: cfg.MediumThreshold}, nil
}
