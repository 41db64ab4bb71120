// Package activitylog is the durable audit trail of user actions. Every
// write snapshots the acting user's name; entries outlive the accounts that
// produced them. A failed insert never fails the audited action: the entry
// goes to a background retry queue and, as a last resort, to the error log.
package activitylog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

const (
	queueCapacity      = 256
	defaultMaxAttempts = 5
	defaultBackoff     = 500 * time.Millisecond
)

// Entry is what collaborators hand to Record. UserID is nil for system
// actions; Username is snapshotted verbatim.
type Entry struct {
	UserID    *uint
	Username  string
	Activity  string
	IPAddress string
	UserAgent string
}

type store interface {
	insert(ctx context.Context, row *models.ActivityLog) error
	search(ctx context.Context, f Filter, offset, limit int) ([]models.ActivityLog, int64, error)
	detachUser(tx *gorm.DB, userID uint) error
}

type pending struct {
	key      string
	row      models.ActivityLog
	attempts int
}

type Recorder struct {
	store       store
	log         zerolog.Logger
	queue       chan pending
	wg          sync.WaitGroup
	closeOnce   sync.Once
	maxAttempts int
	backoff     time.Duration
}

func New(db *gorm.DB, log zerolog.Logger) *Recorder {
	return newWithStore(&gormStore{db: db}, log, defaultMaxAttempts, defaultBackoff)
}

func newWithStore(s store, log zerolog.Logger, maxAttempts int, backoff time.Duration) *Recorder {
	r := &Recorder{
		store:       s,
		log:         log,
		queue:       make(chan pending, queueCapacity),
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
	r.wg.Add(1)
	go r.drain()
	return r
}

// Record writes an audit entry. It never returns an error: persistence
// failures are retried in the background and ultimately logged, so the
// primary action is neither blocked nor rolled back by its audit trail.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	row := models.ActivityLog{
		UserID:           e.UserID,
		UsernameSnapshot: e.Username,
		Activity:         e.Activity,
		IPAddress:        e.IPAddress,
		UserAgent:        e.UserAgent,
		CreatedAt:        time.Now(),
	}

	err := r.store.insert(ctx, &row)
	if err == nil {
		return
	}

	key := uuid.NewString()
	r.log.Warn().Err(err).Str("entry_key", key).Msg("activity log insert failed, queueing for retry")
	select {
	case r.queue <- pending{key: key, row: row, attempts: 1}:
	default:
		r.emitLost(key, row, err)
	}
}

// Close drains the retry queue. Call on shutdown after the HTTP server has
// stopped accepting requests.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() { close(r.queue) })
	r.wg.Wait()
}

func (r *Recorder) drain() {
	defer r.wg.Done()
	for p := range r.queue {
		var lastErr error
		for p.attempts < r.maxAttempts {
			time.Sleep(r.backoff << (p.attempts - 1))
			p.attempts++
			if lastErr = r.store.insert(context.Background(), &p.row); lastErr == nil {
				break
			}
		}
		if lastErr != nil {
			r.emitLost(p.key, p.row, lastErr)
		}
	}
}

// emitLost is the fallback of last resort: the full entry lands in the error
// log so operations can replay it. Audit records are never silently dropped.
func (r *Recorder) emitLost(key string, row models.ActivityLog, err error) {
	ev := r.log.Error().Err(err).
		Str("entry_key", key).
		Str("username_snapshot", row.UsernameSnapshot).
		Str("activity", row.Activity).
		Str("ip_address", row.IPAddress).
		Str("user_agent", row.UserAgent).
		Time("created_at", row.CreatedAt)
	if row.UserID != nil {
		ev = ev.Uint("user_id", *row.UserID)
	}
	ev.Msg("activity log entry could not be persisted")
}

// DetachUser nulls the weak user reference on the user's entries, keeping the
// rows and their snapshots. Runs inside the caller's transaction so the user
// delete and the detach commit together.
func (r *Recorder) DetachUser(tx *gorm.DB, userID uint) error {
	return r.store.detachUser(tx, userID)
}
