package repository

import (
	"context"
	"time"

	"trainerhub/backend/internal/session/domain"
)

// Repository defines persistence for refresh-token sessions.
//
// DeleteByTokenHash reports how many rows it removed: rotation treats zero as
// failure, which is the single-use replay defense. Any backing store must be
// able to report that count atomically with the delete.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// GetByTokenHash returns the session whose token_hash matches, or nil if
	// none. Expiry is not filtered here; callers decide how stale rows fail.
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	// DeleteByTokenHash removes the session with the given hash and returns
	// the number of rows removed (0 or 1; token_hash is unique).
	DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error)
	// DeleteAllByUser removes every session owned by userID and returns the count.
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	// DeleteExpired removes sessions with expires_at before now and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// ListActiveByUser returns the user's non-expired sessions ordered by
	// last activity, newest first. TokenHash is never populated on the result.
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.Session, error)
	// UpdateLastActivity sets last_activity_at for the session. Best-effort
	// callers may ignore the returned error.
	UpdateLastActivity(ctx context.Context, id string, at time.Time) error
}
