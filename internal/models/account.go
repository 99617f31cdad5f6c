package models

import "time"

// AccountStatus mirrors the accounts.status enum.
type AccountStatus string

const (
	AccountOpen   AccountStatus = "open"
	AccountClosed AccountStatus = "closed"
)

// Account represents a row of the accounts table.
type Account struct {
	AccountID    string        `db:"account_id"`
	UserID       string        `db:"user_id"`
	BalanceCents int64         `db:"balance_cents"`
	Status       AccountStatus `db:"status"`
	CreatedAt    time.Time     `db:"created_at"`
	ClosedAt     *time.Time    `db:"closed_at"` // Nullable
}
