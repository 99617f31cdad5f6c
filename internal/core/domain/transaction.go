package domain

import "time"

// TransactionType distinguishes the two directions of money movement on an
// account.
type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

// Transaction records one deposit or withdrawal attempt against an account.
// Rows are immutable once created. The pair (AccountID, IdempotencyKey) is
// unique whenever the key is present; that constraint is the idempotency
// enforcement point for retried requests.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	Type            TransactionType `json:"type"`
	AmountCents     int64           `json:"amountCents"`
	IdempotencyKey  string          `json:"idempotencyKey,omitempty"`
	CreatedByUserID string          `json:"createdByUserID"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Matches reports whether an existing transaction corresponds to the same
// operation as a retried request. A replay must carry the identical type and
// amount; anything else is an idempotency conflict.
func (t Transaction) Matches(txType TransactionType, amountCents int64) bool {
	return t.Type == txType && t.AmountCents == amountCents
}

// SignedAmount returns the amount with the sign the transaction applies to
// the account balance: positive for deposits, negative for withdrawals.
func (t Transaction) SignedAmount() int64 {
	if t.Type == Withdrawal {
		return -t.AmountCents
	}
	return t.AmountCents
}

// MovementResult is the outcome of an applied (or replayed) money movement.
type MovementResult struct {
	TransactionID   string
	AccountID       string
	NewBalanceCents int64
	CreatedAt       time.Time
}
