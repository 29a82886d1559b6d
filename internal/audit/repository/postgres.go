package repository

import (
	"context"
	"database/sql"

	"trainerhub/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit log entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	const q = `
		INSERT INTO security_audit_logs (id, user_id, action, resource, ip_address, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		sql.NullString{String: a.UserID, Valid: a.UserID != ""},
		a.Action,
		sql.NullString{String: a.Resource, Valid: a.Resource != ""},
		sql.NullString{String: a.IP, Valid: a.IP != ""},
		sql.NullString{String: a.Metadata, Valid: a.Metadata != ""},
		a.CreatedAt,
	)
	return err
}

// ListByUser returns the user's audit log entries, newest first, paginated by
// limit and offset.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	const q = `
		SELECT id, user_id, action, resource, ip_address, metadata, created_at
		FROM security_audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var (
			a                           domain.AuditLog
			uid, resource, ip, metadata sql.NullString
		)
		if err := rows.Scan(&a.ID, &uid, &a.Action, &resource, &ip, &metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.UserID = uid.String
		a.Resource = resource.String
		a.IP = ip.String
		a.Metadata = metadata.String
		out = append(out, &a)
	}
	return out, rows.Err()
}
