package repositories

import (
	"context"

	"github.com/scroogebank/corebank/internal/core/domain"
)

// UserRepositoryFacade defines persistence for users and refresh tokens.
type UserRepositoryFacade interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicate when the
	// email is already registered.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByEmail retrieves a user by email, or apperrors.ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByID retrieves a user by id, or apperrors.ErrNotFound.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// SaveRefreshToken stores a hashed refresh token.
	SaveRefreshToken(ctx context.Context, token domain.RefreshToken) error

	// FindRefreshTokenByJTI retrieves a stored refresh token by its jti.
	FindRefreshTokenByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error)

	// RevokeRefreshToken marks the token revoked; used on rotation.
	RevokeRefreshToken(ctx context.Context, jti string) error
}
