package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"trainerhub/backend/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the session. The session must have ID and TokenHash set;
// token_hash carries a unique index, so a duplicate hash fails here.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	const q = `
		INSERT INTO user_sessions (id, user_id, token_hash, device_info, ip_address, created_at, expires_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	device, err := deviceInfoToJSON(s.DeviceInfo)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		s.ID, s.UserID, s.TokenHash, device,
		sql.NullString{String: s.IPAddress, Valid: s.IPAddress != ""},
		s.CreatedAt, s.ExpiresAt, s.LastActivityAt,
	)
	return err
}

// GetByTokenHash returns the session whose token_hash matches, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	const q = `
		SELECT id, user_id, token_hash, device_info, ip_address, created_at, expires_at, last_activity_at
		FROM user_sessions WHERE token_hash = $1`
	row := r.db.QueryRowContext(ctx, q, tokenHash)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// DeleteByTokenHash removes the session with the given hash and returns the
// number of rows removed. Rotation relies on this count to reject replays.
func (r *PostgresRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAllByUser removes every session owned by userID and returns the count.
func (r *PostgresRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpired removes sessions whose expires_at is before now and returns the count.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListActiveByUser returns the user's non-expired sessions, newest activity
// first. token_hash is not selected; it must never leave the repository on
// list results.
func (r *PostgresRepository) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.Session, error) {
	const q = `
		SELECT id, user_id, device_info, ip_address, created_at, expires_at, last_activity_at
		FROM user_sessions
		WHERE user_id = $1 AND expires_at > $2
		ORDER BY last_activity_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		var (
			s      domain.Session
			device []byte
			ip     sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.UserID, &device, &ip, &s.CreatedAt, &s.ExpiresAt, &s.LastActivityAt); err != nil {
			return nil, err
		}
		s.DeviceInfo, err = deviceInfoFromJSON(device)
		if err != nil {
			return nil, err
		}
		s.IPAddress = ip.String
		out = append(out, &s)
	}
	return out, rows.Err()
}

// UpdateLastActivity sets last_activity_at for the session with the given id.
func (r *PostgresRepository) UpdateLastActivity(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE user_sessions SET last_activity_at = $2 WHERE id = $1`, id, at)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s      domain.Session
		device []byte
		ip     sql.NullString
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.TokenHash, &device, &ip, &s.CreatedAt, &s.ExpiresAt, &s.LastActivityAt); err != nil {
		return nil, err
	}
	var err error
	s.DeviceInfo, err = deviceInfoFromJSON(device)
	if err != nil {
		return nil, err
	}
	s.IPAddress = ip.String
	return &s, nil
}

func deviceInfoToJSON(d *domain.DeviceInfo) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func deviceInfoFromJSON(b []byte) (*domain.DeviceInfo, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var d domain.DeviceInfo
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
