package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/apperr"
)

// UserService holds the one user operation this core owns: account removal,
// which must detach the activity log's weak references instead of cascading
// into it.
type UserService struct {
	store Store
	audit auditTrail
	log   zerolog.Logger
}

func NewUserService(store Store, audit auditTrail, log zerolog.Logger) *UserService {
	return &UserService{store: store, audit: audit, log: log}
}

// Delete removes a user account. The user's activity log entries are kept
// with user_id nulled; their username snapshots remain the only durable
// evidence of the account's actions, so both writes commit together.
func (s *UserService) Delete(ctx context.Context, actor Actor, userID uint) error {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.ID == actor.ID {
		return apperr.Validation("user_id", "cannot delete the acting account")
	}

	err = s.store.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.audit.DetachUser(tx, userID); err != nil {
			return err
		}
		return s.store.DeleteUser(tx, userID)
	})
	if err != nil {
		return err
	}

	recordActivity(ctx, s.audit, actor, fmt.Sprintf("Menghapus pengguna %s", user.Username))
	return nil
}
