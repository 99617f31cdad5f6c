package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/scroogebank/corebank/internal/apperrors"
	"github.com/scroogebank/corebank/internal/core/domain"
	portsrepo "github.com/scroogebank/corebank/internal/core/ports/repositories"
	portssvc "github.com/scroogebank/corebank/internal/core/ports/services"
	"github.com/scroogebank/corebank/internal/dto"
	"github.com/scroogebank/corebank/internal/utils/money"
)

// operatorService exposes bank-wide aggregate figures computed from the
// ledger. Reads take no locks: the figures are advisory and the underwriting
// engine recomputes them under its own lock before any decision.
type operatorService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	policy     domain.LendingPolicy
}

// NewOperatorService creates a new OperatorService.
func NewOperatorService(ledgerRepo portsrepo.LedgerRepositoryFacade, policy domain.LendingPolicy) portssvc.OperatorSvcFacade {
	return &operatorService{
		ledgerRepo: ledgerRepo,
		policy:     policy,
	}
}

// Ensure operatorService implements the portssvc.OperatorSvcFacade interface
var _ portssvc.OperatorSvcFacade = (*operatorService)(nil)

// BankBalance returns total bank cash on hand: the signed sum of every
// ledger entry. The figure may be negative.
func (s *operatorService) BankBalance(ctx context.Context) (int64, error) {
	return s.ledgerRepo.SumLedger(ctx)
}

// LoanFunds returns the full lending-capacity breakdown.
func (s *operatorService) LoanFunds(ctx context.Context) (domain.BankFunds, error) {
	sums, err := s.ledgerRepo.FetchLedgerSums(ctx)
	if err != nil {
		return domain.BankFunds{}, err
	}
	return domain.ComputeBankFunds(sums, s.policy), nil
}

// CanApproveLoan is a dry-run capacity check. It reserves nothing: a
// positive answer can be stale by the time an application runs.
func (s *operatorService) CanApproveLoan(ctx context.Context, amount decimal.Decimal) (*dto.CanApproveLoanResponse, error) {
	requestedCents, err := money.ToCents(amount)
	if err != nil {
		return nil, err
	}
	if requestedCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	funds, err := s.LoanFunds(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.CanApproveLoanResponse{
		CanApprove:             requestedCents <= funds.AvailableForLoansCents,
		AvailableForLoansCents: funds.AvailableForLoansCents,
		RequestedCents:         requestedCents,
	}
	if !resp.CanApprove {
		resp.ShortfallCents = requestedCents - funds.AvailableForLoansCents
	}
	return resp, nil
}
