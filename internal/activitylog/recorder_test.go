package activitylog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

type fakeStore struct {
	mu           sync.Mutex
	rows         []models.ActivityLog
	insertErrs   []error // consumed per insert call before succeeding
	insertCalls  int
	detachedUser *uint
	searchRows   []models.ActivityLog
	searchTotal  int64
	lastOffset   int
	lastLimit    int
	lastFilter   Filter
}

func (f *fakeStore) insert(_ context.Context, row *models.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeStore) search(_ context.Context, filter Filter, offset, limit int) ([]models.ActivityLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	f.lastOffset = offset
	f.lastLimit = limit
	return f.searchRows, f.searchTotal, nil
}

func (f *fakeStore) detachUser(_ *gorm.DB, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detachedUser = &userID
	return nil
}

func newTestRecorder(s store) *Recorder {
	return newWithStore(s, zerolog.Nop(), 3, time.Millisecond)
}

func TestRecordPersistsSnapshot(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRecorder(fs)
	defer r.Close()

	uid := uint(7)
	r.Record(context.Background(), Entry{
		UserID:    &uid,
		Username:  "budi",
		Activity:  "Menambahkan aset Server Utama (HW-001)",
		IPAddress: "10.0.0.8",
		UserAgent: "curl/8.5",
	})

	require.Len(t, fs.rows, 1)
	row := fs.rows[0]
	assert.Equal(t, &uid, row.UserID)
	assert.Equal(t, "budi", row.UsernameSnapshot)
	assert.Equal(t, "10.0.0.8", row.IPAddress)
	assert.False(t, row.CreatedAt.IsZero())
}

func TestRecordRetriesInBackground(t *testing.T) {
	fs := &fakeStore{insertErrs: []error{
		errors.New("connection reset"),
		errors.New("connection reset"),
	}}
	r := newTestRecorder(fs)

	r.Record(context.Background(), Entry{Username: "budi", Activity: "Memperbarui aset"})
	// the failed insert must not surface to the caller; the queue drains on Close
	r.Close()

	require.Len(t, fs.rows, 1)
	assert.Equal(t, "budi", fs.rows[0].UsernameSnapshot)
	assert.Equal(t, 3, fs.insertCalls)
}

func TestRecordStopsAtRetryBudget(t *testing.T) {
	fs := &fakeStore{insertErrs: []error{
		errors.New("down"), errors.New("down"), errors.New("down"), errors.New("down"),
	}}
	r := newTestRecorder(fs)

	r.Record(context.Background(), Entry{Username: "budi", Activity: "Memperbarui aset"})
	r.Close()

	assert.Empty(t, fs.rows)
	// 1 synchronous attempt + 2 background retries = budget of 3
	assert.Equal(t, 3, fs.insertCalls)
}

func TestDetachUserKeepsRows(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRecorder(fs)
	defer r.Close()

	uid := uint(4)
	r.Record(context.Background(), Entry{UserID: &uid, Username: "budi", Activity: "Login"})
	require.NoError(t, r.DetachUser(nil, uid))

	require.NotNil(t, fs.detachedUser)
	assert.Equal(t, uid, *fs.detachedUser)
	assert.Len(t, fs.rows, 1, "detaching a user must never delete entries")
}
