package activitylog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

func TestFilterNormalize(t *testing.T) {
	f := Filter{}
	require.NoError(t, f.normalize())
	assert.Equal(t, "created_at", f.SortField)
	assert.Equal(t, "desc", f.SortOrder)

	f = Filter{SortField: "created_at", SortOrder: "ASC"}
	require.NoError(t, f.normalize())
	assert.Equal(t, "asc", f.SortOrder)
}

func TestFilterRejectsUnknownSortField(t *testing.T) {
	// only allow-listed columns may reach the query builder
	f := Filter{SortField: "username; DROP TABLE activity_logs"}
	err := f.normalize()
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	f = Filter{SortField: "user_id"}
	assert.True(t, apperr.IsValidation(f.normalize()))
}

func TestFilterRejectsUnknownSortOrder(t *testing.T) {
	f := Filter{SortOrder: "sideways"}
	assert.True(t, apperr.IsValidation(f.normalize()))
}

func TestPaginate(t *testing.T) {
	offset, limit := paginate(2, 10)
	assert.Equal(t, 10, offset)
	assert.Equal(t, 10, limit)

	offset, limit = paginate(0, 0)
	assert.Equal(t, 0, offset)
	assert.Equal(t, DefaultPageSize, limit)

	_, limit = paginate(1, 10_000)
	assert.Equal(t, MaxPageSize, limit)
}

func TestQueryReturnsPageAndTotal(t *testing.T) {
	// 25 matches, page 2 of size 10: ten rows back, total still 25
	fs := &fakeStore{
		searchRows:  make([]models.ActivityLog, 10),
		searchTotal: 25,
	}
	r := newTestRecorder(fs)
	defer r.Close()

	rows, total, err := r.Query(context.Background(), Filter{Search: "aset"}, 2, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 10)
	assert.EqualValues(t, 25, total)
	assert.Equal(t, 10, fs.lastOffset)
	assert.Equal(t, 10, fs.lastLimit)
	assert.Equal(t, "aset", fs.lastFilter.Search)
}

func TestQueryRejectsBadSortBeforeStorage(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRecorder(fs)
	defer r.Close()

	_, _, err := r.Query(context.Background(), Filter{SortField: "ip_address"}, 1, 10)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, 0, fs.lastLimit)
}
