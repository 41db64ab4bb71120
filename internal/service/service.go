// Package service composes the classification engine, code generator,
// assessment ledger and activity log into the asset write flows. Every write
// runs validate first, lands its rows in one transaction, and records the
// activity trail after commit.
package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/activitylog"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/classification"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

// Actor is the authenticated identity acting on a request, supplied by the
// session layer.
type Actor struct {
	ID        uint
	Username  string
	Role      models.UserRole
	IPAddress string
	UserAgent string
}

// AssetFilter narrows List results.
type AssetFilter struct {
	CategoryID *uint
	Status     *models.AssetStatus
	Search     string
}

// Store is the persistence surface the orchestrator needs. The gorm-backed
// implementation lives in store.go; tests substitute fakes.
type Store interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	CreateAsset(tx *gorm.DB, a *models.Asset) error
	SaveAsset(tx *gorm.DB, a *models.Asset) error
	AssetByID(ctx context.Context, id uint) (*models.Asset, error)
	ListAssets(ctx context.Context, f AssetFilter) ([]models.Asset, error)

	CategoryByID(ctx context.Context, id uint) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	UserByID(ctx context.Context, id uint) (*models.User, error)
	DeleteUser(tx *gorm.DB, id uint) error
}

type codeGenerator interface {
	NextCode(ctx context.Context, categoryID uint) (string, error)
}

type appender interface {
	AppendWith(tx *gorm.DB, assetID, assessorID uint, scores classification.Scores, note string) (*models.Assessment, error)
}

type auditTrail interface {
	Record(ctx context.Context, e activitylog.Entry)
	DetachUser(tx *gorm.DB, userID uint) error
}
