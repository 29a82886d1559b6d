package repository

import (
	"context"

	"trainerhub/backend/internal/user/domain"
)

// Repository defines the read-only user access the token core needs.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
