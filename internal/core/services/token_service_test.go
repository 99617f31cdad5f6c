package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/scroogebank/corebank/internal/apperrors"
	"github.com/scroogebank/corebank/internal/core/domain"
	portssvc "github.com/scroogebank/corebank/internal/core/ports/services"
	"github.com/scroogebank/corebank/internal/core/services"
	"github.com/scroogebank/corebank/internal/dto"
	"github.com/scroogebank/corebank/internal/utils"
)

type TokenServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.TokenSvcFacade
	ctx          context.Context
}

func (s *TokenServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	userSvc := services.NewUserService(s.mockUserRepo)
	s.service = services.NewTokenService(userSvc, s.mockUserRepo, services.TokenConfig{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "corebank",
	})
	s.ctx = context.Background()
}

func (s *TokenServiceTestSuite) storedUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	s.Require().NoError(err)
	return &domain.User{
		UserID:       uuid.NewString(),
		Email:        "alice@example.com",
		PasswordHash: hash,
		Roles:        []domain.UserRole{domain.RoleUser},
		CreatedAt:    time.Now().UTC(),
	}
}

func (s *TokenServiceTestSuite) TestRegister_IssuesTokenPair() {
	s.mockUserRepo.On("SaveUser", s.ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == "alice@example.com" && user.PasswordHash != "s3cret-password"
	})).Return(nil).Once()
	s.mockUserRepo.On("SaveRefreshToken", s.ctx, mock.AnythingOfType("domain.RefreshToken")).Return(nil).Once()

	resp, err := s.service.Register(s.ctx, dto.RegisterRequest{
		Email:    "Alice@Example.com",
		Password: "s3cret-password",
	})

	s.Require().NoError(err)
	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)
	s.Equal("Bearer", resp.TokenType)
	s.Equal(int64(900), resp.ExpiresIn)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *TokenServiceTestSuite) TestRegister_DuplicateEmail() {
	s.mockUserRepo.On("SaveUser", s.ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	resp, err := s.service.Register(s.ctx, dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})

	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
	s.Nil(resp)
	s.mockUserRepo.AssertNotCalled(s.T(), "SaveRefreshToken", mock.Anything, mock.Anything)
}

func (s *TokenServiceTestSuite) TestLogin_Success() {
	user := s.storedUser("s3cret-password")
	s.mockUserRepo.On("FindUserByEmail", s.ctx, "alice@example.com").Return(user, nil).Once()
	s.mockUserRepo.On("SaveRefreshToken", s.ctx, mock.MatchedBy(func(token domain.RefreshToken) bool {
		return token.UserID == user.UserID && token.TokenHash != ""
	})).Return(nil).Once()

	resp, err := s.service.Login(s.ctx, dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})

	s.Require().NoError(err)
	s.NotEmpty(resp.AccessToken)
}

func (s *TokenServiceTestSuite) TestLogin_WrongPasswordAndUnknownEmailIndistinguishable() {
	user := s.storedUser("s3cret-password")
	s.mockUserRepo.On("FindUserByEmail", s.ctx, "alice@example.com").Return(user, nil).Once()
	s.mockUserRepo.On("FindUserByEmail", s.ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, wrongPassErr := s.service.Login(s.ctx, dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	_, unknownErr := s.service.Login(s.ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "wrong"})

	s.Require().ErrorIs(wrongPassErr, apperrors.ErrUnauthorized)
	s.Require().ErrorIs(unknownErr, apperrors.ErrUnauthorized)
	s.Equal(wrongPassErr.Error(), unknownErr.Error())
}

func (s *TokenServiceTestSuite) TestRefresh_RotatesToken() {
	user := s.storedUser("s3cret-password")
	jti := uuid.NewString()
	raw := jti + ".deadbeefcafe"
	stored := &domain.RefreshToken{
		JTI:       jti,
		UserID:    user.UserID,
		TokenHash: utils.HashRefreshToken(raw),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	s.mockUserRepo.On("FindRefreshTokenByJTI", s.ctx, jti).Return(stored, nil).Once()
	s.mockUserRepo.On("FindUserByID", s.ctx, user.UserID).Return(user, nil).Once()
	s.mockUserRepo.On("RevokeRefreshToken", s.ctx, jti).Return(nil).Once()
	s.mockUserRepo.On("SaveRefreshToken", s.ctx, mock.AnythingOfType("domain.RefreshToken")).Return(nil).Once()

	resp, err := s.service.Refresh(s.ctx, dto.RefreshRequest{RefreshToken: raw})

	s.Require().NoError(err)
	s.NotEqual(raw, resp.RefreshToken)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *TokenServiceTestSuite) TestRefresh_RevokedTokenUnauthorized() {
	jti := uuid.NewString()
	raw := jti + ".deadbeefcafe"
	stored := &domain.RefreshToken{
		JTI:       jti,
		UserID:    uuid.NewString(),
		TokenHash: utils.HashRefreshToken(raw),
		Revoked:   true,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	s.mockUserRepo.On("FindRefreshTokenByJTI", s.ctx, jti).Return(stored, nil).Once()

	resp, err := s.service.Refresh(s.ctx, dto.RefreshRequest{RefreshToken: raw})

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(resp)
	s.mockUserRepo.AssertNotCalled(s.T(), "SaveRefreshToken", mock.Anything, mock.Anything)
}

func (s *TokenServiceTestSuite) TestRefresh_ExpiredTokenUnauthorized() {
	jti := uuid.NewString()
	raw := jti + ".deadbeefcafe"
	stored := &domain.RefreshToken{
		JTI:       jti,
		UserID:    uuid.NewString(),
		TokenHash: utils.HashRefreshToken(raw),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	s.mockUserRepo.On("FindRefreshTokenByJTI", s.ctx, jti).Return(stored, nil).Once()

	_, err := s.service.Refresh(s.ctx, dto.RefreshRequest{RefreshToken: raw})

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *TokenServiceTestSuite) TestRefresh_TamperedTokenUnauthorized() {
	jti := uuid.NewString()
	stored := &domain.RefreshToken{
		JTI:       jti,
		UserID:    uuid.NewString(),
		TokenHash: utils.HashRefreshToken(jti + ".the-real-secret"),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	s.mockUserRepo.On("FindRefreshTokenByJTI", s.ctx, jti).Return(stored, nil).Once()

	_, err := s.service.Refresh(s.ctx, dto.RefreshRequest{RefreshToken: jti + ".guessed-secret"})

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	s.mockUserRepo.AssertNotCalled(s.T(), "RevokeRefreshToken", mock.Anything, mock.Anything)
}

func (s *TokenServiceTestSuite) TestRefresh_MalformedTokenUnauthorized() {
	_, err := s.service.Refresh(s.ctx, dto.RefreshRequest{RefreshToken: "not-a-refresh-token"})

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	s.mockUserRepo.AssertNotCalled(s.T(), "FindRefreshTokenByJTI", mock.Anything, mock.Anything)
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
