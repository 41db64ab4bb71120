package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *gormStore) CreateAsset(tx *gorm.DB, a *models.Asset) error {
	if err := tx.Create(a).Error; err != nil {
		return apperr.Dependency("create asset", err)
	}
	return nil
}

func (s *gormStore) SaveAsset(tx *gorm.DB, a *models.Asset) error {
	if err := tx.Save(a).Error; err != nil {
		return apperr.Dependency("save asset", err)
	}
	return nil
}

func (s *gormStore) AssetByID(ctx context.Context, id uint) (*models.Asset, error) {
	var a models.Asset
	err := s.db.WithContext(ctx).Preload("Category").First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("asset", id)
	}
	if err != nil {
		return nil, apperr.Dependency("load asset", err)
	}
	return &a, nil
}

func (s *gormStore) ListAssets(ctx context.Context, f AssetFilter) ([]models.Asset, error) {
	q := s.db.WithContext(ctx).Preload("Category").Order("code asc")
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}

	var assets []models.Asset
	if err := q.Find(&assets).Error; err != nil {
		return nil, apperr.Dependency("list assets", err)
	}
	return assets, nil
}

func (s *gormStore) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).First(&cat, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category", id)
	}
	if err != nil {
		return nil, apperr.Dependency("load category", err)
	}
	return &cat, nil
}

func (s *gormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).Order("id asc").Find(&cats).Error; err != nil {
		return nil, apperr.Dependency("list categories", err)
	}
	return cats, nil
}

func (s *gormStore) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, apperr.Dependency("load user", err)
	}
	return &u, nil
}

func (s *gormStore) DeleteUser(tx *gorm.DB, id uint) error {
	if err := tx.Delete(&models.User{}, id).Error; err != nil {
		return apperr.Dependency("delete user", err)
	}
	return nil
}
