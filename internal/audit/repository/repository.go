package repository

import (
	"context"

	"trainerhub/backend/internal/audit/domain"
)

// Repository defines persistence for security audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error)
}
