package services

import (
	"github.com/scroogebank/corebank/internal/core/domain"
	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
	portssvc "github.com/scroogebank/corebank/internal/core/ports/services"
	"github.com/scroogebank/corebank/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	policy := domain.LendingPolicy{
		DepositShareDivisor:   cfg.LendingDepositShareDivisor,
		ClampNegativeBaseCash: cfg.LendingClampNegativeBaseCash,
	}

	container.Account = NewAccountService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.LedgerRepo,
		repos.LoanRepo,
	)
	container.Loan = NewLoanService(
		repos.LoanRepo,
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.LedgerRepo,
		policy,
	)
	container.Operator = NewOperatorService(repos.LedgerRepo, policy)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(container.User, repos.UserRepo, TokenConfig{
		JWTSecret:          cfg.JWTSecret,
		AccessTokenExpiry:  cfg.JWTExpiryDuration,
		RefreshTokenExpiry: cfg.RefreshTokenExpiryDuration,
		Issuer:             cfg.JWTIssuer,
	})

	return container
}
