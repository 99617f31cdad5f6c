package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/scroogebank/corebank/internal/core/domain"
	"github.com/scroogebank/corebank/internal/utils/money"
)

// AccountResponse defines the data returned for an account. Amounts cross
// the boundary as decimal currency units.
type AccountResponse struct {
	AccountID string          `json:"accountID"`
	UserID    string          `json:"userID"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	ClosedAt  *time.Time      `json:"closedAt,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		UserID:    acc.UserID,
		Balance:   money.FromCents(acc.BalanceCents),
		Status:    string(acc.Status),
		CreatedAt: acc.CreatedAt,
		ClosedAt:  acc.ClosedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// MovementRequest defines the body of a deposit or withdrawal.
type MovementRequest struct {
	AccountID      string          `json:"accountID" binding:"required,uuid"`
	Amount         decimal.Decimal `json:"amount" binding:"required,positiveamount"`
	IdempotencyKey string          `json:"idempotencyKey"` // Optional
}

// MovementResponse defines the result of an applied (or replayed) movement.
type MovementResponse struct {
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToMovementResponse converts a domain.MovementResult to its DTO
func ToMovementResponse(res *domain.MovementResult) MovementResponse {
	return MovementResponse{
		TransactionID: res.TransactionID,
		AccountID:     res.AccountID,
		NewBalance:    money.FromCents(res.NewBalanceCents),
		CreatedAt:     res.CreatedAt,
	}
}

// CloseAccountRequest identifies the account to close.
type CloseAccountRequest struct {
	AccountID string `json:"accountID" binding:"required,uuid"`
}

// StatementQuery defines the date range of an account statement.
type StatementQuery struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// TransactionResponse is one statement line.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StatementResponse defines an account statement: the current balance, the
// owner's open loans and the transactions in the requested range.
type StatementResponse struct {
	Balance      decimal.Decimal       `json:"balance"`
	Loans        []LoanResponse        `json:"loans"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToStatementResponse assembles a StatementResponse from domain objects
func ToStatementResponse(balanceCents int64, loans []domain.Loan, txns []domain.Transaction) StatementResponse {
	lines := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		lines[i] = TransactionResponse{
			TransactionID: t.TransactionID,
			Type:          string(t.Type),
			Amount:        money.FromCents(t.AmountCents),
			CreatedAt:     t.CreatedAt,
		}
	}
	return StatementResponse{
		Balance:      money.FromCents(balanceCents),
		Loans:        ToListLoanResponse(loans),
		Transactions: lines,
	}
}
