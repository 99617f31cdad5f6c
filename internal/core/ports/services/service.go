package services

import (
	"context"

	"github.com/scroogebank/corebank/internal/dto"
)

// TokenSvcFacade handles registration, login and refresh-token rotation.
type TokenSvcFacade interface {
	// Register creates a user and issues a token pair.
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)

	// Login validates credentials and issues a token pair.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)

	// Refresh rotates a refresh token, revoking the presented one.
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.AuthResponse, error)
}

// ServiceContainer holds all service facades handed to the HTTP layer.
type ServiceContainer struct {
	Account  AccountSvcFacade
	Loan     LoanSvcFacade
	Operator OperatorSvcFacade
	User     UserSvcFacade
	Token    TokenSvcFacade
}
