package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/billcraft/invoice-api/internal/domain/entity"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error)
	SetRoles(ctx context.Context, user *entity.User, roles []entity.Role) error
}

// RoleRepository defines the interface for role lookups.
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*entity.Role, error)
}
