package models

import "time"

// TransactionType mirrors the transactions.type enum.
type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

// Transaction represents a row of the transactions table. Rows are
// append-only; (account_id, idempotency_key) carries a partial unique index
// where the key is non-null.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	Type            TransactionType `db:"type"`
	AmountCents     int64           `db:"amount_cents"`
	IdempotencyKey  *string         `db:"idempotency_key"` // Nullable
	CreatedByUserID string          `db:"created_by_user_id"`
	CreatedAt       time.Time       `db:"created_at"`
}
