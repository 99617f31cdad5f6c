package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scroogebank/corebank/internal/apperrors"
	"github.com/scroogebank/corebank/internal/core/domain"
	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
	"github.com/scroogebank/corebank/internal/models"
	"github.com/scroogebank/corebank/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates a new repository for users and refresh tokens.
func NewUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row rowScanner) (*domain.User, error) {
	var m models.User
	err := row.Scan(&m.UserID, &m.Email, &m.PasswordHash, &m.Roles, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

// SaveUser persists a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)

	query := `
		INSERT INTO users (user_id, email, password_hash, roles, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, m.UserID, m.Email, m.PasswordHash, m.Roles, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user %s: %w", m.UserID, err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT user_id, email, password_hash, roles, created_at FROM users WHERE email = $1;`
	return scanUser(r.Pool.QueryRow(ctx, query, email))
}

// FindUserByID retrieves a user by id.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT user_id, email, password_hash, roles, created_at FROM users WHERE user_id = $1;`
	return scanUser(r.Pool.QueryRow(ctx, query, userID))
}

// SaveRefreshToken stores a hashed refresh token.
func (r *PgxUserRepository) SaveRefreshToken(ctx context.Context, token domain.RefreshToken) error {
	m := mapping.ToModelRefreshToken(token)

	query := `
		INSERT INTO refresh_tokens (jti, user_id, token_hash, revoked, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, m.JTI, m.UserID, m.TokenHash, m.Revoked, m.ExpiresAt, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save refresh token %s: %w", m.JTI, err)
	}
	return nil
}

// FindRefreshTokenByJTI retrieves a stored refresh token by its jti.
func (r *PgxUserRepository) FindRefreshTokenByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error) {
	query := `SELECT jti, user_id, token_hash, revoked, expires_at, created_at FROM refresh_tokens WHERE jti = $1;`
	var m models.RefreshToken
	err := r.Pool.QueryRow(ctx, query, jti).Scan(&m.JTI, &m.UserID, &m.TokenHash, &m.Revoked, &m.ExpiresAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan refresh token row: %w", err)
	}
	token := mapping.ToDomainRefreshToken(m)
	return &token, nil
}

// RevokeRefreshToken marks the token revoked.
func (r *PgxUserRepository) RevokeRefreshToken(ctx context.Context, jti string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE jti = $1;`, jti)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token %s: %w", jti, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
