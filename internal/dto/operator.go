package dto

import (
	"github.com/shopspring/decimal"

	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/utils/money"
)

// BankBalanceResponse reports total bank cash on hand. The figure may be
// negative when withdrawals have overdrawn the bank.
type BankBalanceResponse struct {
	BalanceCents int64           `json:"balanceCents"`
	Balance      decimal.Decimal `json:"balance"`
}

// ToBankBalanceResponse builds a BankBalanceResponse from a cents figure
func ToBankBalanceResponse(balanceCents int64) BankBalanceResponse {
	return BankBalanceResponse{
		BalanceCents: balanceCents,
		Balance:      money.FromCents(balanceCents),
	}
}

// LoanFundsResponse breaks down the bank's lending capacity.
type LoanFundsResponse struct {
	BalanceCents              int64           `json:"balanceCents"`
	Balance                   decimal.Decimal `json:"balance"`
	BaseCashCents             int64           `json:"baseCashCents"`
	DepositsOnHandCents       int64           `json:"depositsOnHandCents"`
	LoanableFromDepositsCents int64           `json:"loanableFromDepositsCents"`
	OutstandingLoansCents     int64           `json:"outstandingLoansCents"`
	AvailableForLoansCents    int64           `json:"availableForLoansCents"`
	AvailableForLoans         decimal.Decimal `json:"availableForLoans"`
}

// ToLoanFundsResponse converts domain.BankFunds to its DTO
func ToLoanFundsResponse(f domain.BankFunds) LoanFundsResponse {
	return LoanFundsResponse{
		BalanceCents:              f.TotalCashCents(),
		Balance:                   money.FromCents(f.TotalCashCents()),
		BaseCashCents:             f.BaseCashCents,
		DepositsOnHandCents:       f.DepositsOnHandCents,
		LoanableFromDepositsCents: f.LoanableFromDepositsCents,
		OutstandingLoansCents:     f.OutstandingLoansCents,
		AvailableForLoansCents:    f.AvailableForLoansCents,
		AvailableForLoans:         money.FromCents(f.AvailableForLoansCents),
	}
}

// CanApproveLoanQuery is the dry-run capacity check input.
type CanApproveLoanQuery struct {
	Amount decimal.Decimal `form:"amount" binding:"required,positiveamount"`
}

// CanApproveLoanResponse is the dry-run capacity check result.
type CanApproveLoanResponse struct {
	CanApprove             bool  `json:"canApprove"`
	AvailableForLoansCents int64 `json:"availableForLoansCents"`
	RequestedCents         int64 `json:"requestedCents"`
	ShortfallCents         int64 `json:"shortfallCents"`
}
