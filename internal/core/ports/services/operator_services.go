package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/dto"
)

// OperatorSvcFacade exposes the bank-wide aggregate figures. Access control
// (operator role) is enforced by the HTTP layer.
type OperatorSvcFacade interface {
	// BankBalance returns total bank cash on hand, the signed sum of every
	// ledger entry.
	BankBalance(ctx context.Context) (int64, error)

	// LoanFunds returns the full lending-capacity breakdown.
	LoanFunds(ctx context.Context) (domain.BankFunds, error)

	// CanApproveLoan is a dry-run capacity check; it takes no locks and
	// reserves nothing.
	CanApproveLoan(ctx context.Context, amount decimal.Decimal) (*dto.CanApproveLoanResponse, error)
}
