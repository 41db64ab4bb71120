// Package assetcode issues the per-category sequential asset codes
// (e.g. HW-001). Allocation is serialized per category with a row lock;
// numbers are never reused or decremented.
package assetcode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

const defaultMaxAttempts = 3

// sequencer performs one atomic read-increment-return for a category.
type sequencer interface {
	allocate(ctx context.Context, categoryID uint) (prefix string, number int, err error)
}

type Generator struct {
	seq         sequencer
	maxAttempts int
}

func New(db *gorm.DB) *Generator {
	return &Generator{seq: &gormSequencer{db: db}, maxAttempts: defaultMaxAttempts}
}

// NextCode returns the next unused code for the category. Contention on the
// sequence row is retried a bounded number of times, then surfaced as a
// ConflictError so callers treat it as transient.
func (g *Generator) NextCode(ctx context.Context, categoryID uint) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		prefix, n, err := g.seq.allocate(ctx, categoryID)
		if err == nil {
			return formatCode(prefix, n), nil
		}
		if apperr.IsNotFound(err) {
			return "", err
		}
		if !retryable(err) {
			return "", apperr.Dependency("allocate asset code", err)
		}
	}
	return "", apperr.Conflict(fmt.Sprintf("asset code allocation for category %d contended after %d attempts", categoryID, g.maxAttempts))
}

func formatCode(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// retryable reports whether the allocation failed on contention rather than
// on a hard storage fault: serialization aborts, deadlocks, or a duplicate
// key from two transactions creating the same sequence row.
func retryable(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") ||
		strings.Contains(msg, "SQLSTATE 40P01") ||
		strings.Contains(msg, "duplicate key")
}

type gormSequencer struct {
	db *gorm.DB
}

func (s *gormSequencer) allocate(ctx context.Context, categoryID uint) (string, int, error) {
	var prefix string
	var number int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("category", categoryID)
			}
			return err
		}
		prefix = cat.CodePrefix

		var seq models.AssetCodeSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("category_id = ?", categoryID).
			First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First code for this category. A concurrent first insert
			// surfaces as a duplicate key, which the caller retries.
			seq = models.AssetCodeSequence{CategoryID: categoryID}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		seq.LastNumber++
		number = seq.LastNumber
		return tx.Model(&models.AssetCodeSequence{}).
			Where("category_id = ?", categoryID).
			Update("last_number", seq.LastNumber).Error
	})
	if err != nil {
		return "", 0, err
	}
	return prefix, number, nil
}
