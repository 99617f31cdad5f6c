package services

import (
	"context"

	"github.com/scroogebank/corebank/internal/core/domain"
)

// UserSvcFacade defines user lookup and creation.
type UserSvcFacade interface {
	// CreateUser persists a new user with an already-hashed password.
	CreateUser(ctx context.Context, email string, passwordHash string, roles []domain.UserRole) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
