package activitylog

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// allowedSortFields is the explicit allow-list; caller-supplied column names
// never reach the query builder.
var allowedSortFields = map[string]bool{
	"created_at": true,
}

type Filter struct {
	Search    string
	From      *time.Time
	To        *time.Time
	SortField string
	SortOrder string
}

func (f *Filter) normalize() error {
	if f.SortField == "" {
		f.SortField = "created_at"
	}
	if !allowedSortFields[f.SortField] {
		return apperr.Validation("sort_field", "must be one of: created_at")
	}

	f.SortOrder = strings.ToLower(f.SortOrder)
	switch f.SortOrder {
	case "":
		f.SortOrder = "desc"
	case "asc", "desc":
	default:
		return apperr.Validation("sort_order", "must be asc or desc")
	}
	return nil
}

func paginate(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return (page - 1) * pageSize, pageSize
}

// Query returns one page of matching entries plus the total match count.
func (r *Recorder) Query(ctx context.Context, f Filter, page, pageSize int) ([]models.ActivityLog, int64, error) {
	if err := f.normalize(); err != nil {
		return nil, 0, err
	}
	offset, limit := paginate(page, pageSize)
	return r.store.search(ctx, f, offset, limit)
}

type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) insert(ctx context.Context, row *models.ActivityLog) error {
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *gormStore) search(ctx context.Context, f Filter, offset, limit int) ([]models.ActivityLog, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.ActivityLog{}).
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id")

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where(
			"activity_logs.activity ILIKE ? OR activity_logs.username_snapshot ILIKE ? OR users.username ILIKE ?",
			like, like, like,
		)
	}
	if f.From != nil {
		q = q.Where("activity_logs.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("activity_logs.created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Dependency("count activity logs", err)
	}

	var rows []models.ActivityLog
	err := q.Preload("User").
		Order("activity_logs." + f.SortField + " " + f.SortOrder).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, apperr.Dependency("list activity logs", err)
	}
	return rows, total, nil
}

func (s *gormStore) detachUser(tx *gorm.DB, userID uint) error {
	if tx == nil {
		tx = s.db
	}
	err := tx.Model(&models.ActivityLog{}).
		Where("user_id = ?", userID).
		Update("user_id", nil).Error
	if err != nil {
		return apperr.Dependency("detach user from activity logs", err)
	}
	return nil
}
