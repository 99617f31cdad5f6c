package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scroogebank/corebank/internal/apperrors"
	"github.com/scroogebank/corebank/internal/core/domain"
	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
	portssvc "github.com/scroogebank/corebank/internal/core/ports/services"
	"github.com/scroogebank/corebank/internal/dto"
	"github.com/scroogebank/corebank/internal/middleware"
	"github.com/scroogebank/corebank/internal/utils"
)

// TokenConfig carries the signing and lifetime settings of issued tokens.
type TokenConfig struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
}

// tokenService handles registration, login and refresh-token rotation.
// Raw refresh tokens are "<jti>.<secret>"; only the SHA256 digest of the
// whole token is stored, keyed by jti.
type tokenService struct {
	userSvc  portssvc.UserSvcFacade
	userRepo portsrepo.UserRepositoryFacade
	cfg      TokenConfig
}

// NewTokenService creates a new TokenService.
func NewTokenService(userSvc portssvc.UserSvcFacade, userRepo portsrepo.UserRepositoryFacade, cfg TokenConfig) portssvc.TokenSvcFacade {
	return &tokenService{
		userSvc:  userSvc,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Ensure tokenService implements the portssvc.TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// Register creates a user and issues a token pair.
func (s *tokenService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userSvc.CreateUser(ctx, strings.ToLower(req.Email), passwordHash, []domain.UserRole{domain.RoleUser})
	if err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, user)
}

// Login validates credentials and issues a token pair. Unknown email and
// wrong password are reported identically.
func (s *tokenService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userSvc.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Login failed", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrUnauthorized
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A revoked, expired or unrecognized token is unauthorized.
func (s *tokenService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	jti, _, ok := strings.Cut(req.RefreshToken, ".")
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	stored, err := s.userRepo.FindRefreshTokenByJTI(ctx, jti)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CompareRefreshTokenHash(req.RefreshToken, stored.TokenHash) {
		logger.Warn("Refresh token hash mismatch", slog.String("jti", jti))
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userSvc.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if err := s.userRepo.RevokeRefreshToken(ctx, jti); err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, user)
}

// issueTokenPair mints an access token and a fresh refresh token for the
// user, persisting only the refresh token's digest.
func (s *tokenService) issueTokenPair(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	roles := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = string(r)
	}

	accessToken, err := utils.GenerateJWT(user.UserID, roles, s.cfg.JWTSecret, s.cfg.AccessTokenExpiry, s.cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	secret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	jti := uuid.NewString()
	rawRefreshToken := jti + "." + secret

	now := time.Now().UTC()
	token := domain.RefreshToken{
		JTI:       jti,
		UserID:    user.UserID,
		TokenHash: utils.HashRefreshToken(rawRefreshToken),
		ExpiresAt: now.Add(s.cfg.RefreshTokenExpiry),
		CreatedAt: now,
	}
	if err := s.userRepo.SaveRefreshToken(ctx, token); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: rawRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenExpiry.Seconds()),
	}, nil
}
