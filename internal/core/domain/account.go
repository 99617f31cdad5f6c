package domain

import "time"

// AccountStatus is the lifecycle state of a customer account.
type AccountStatus string

const (
	AccountOpen   AccountStatus = "open"
	AccountClosed AccountStatus = "closed"
)

// Account is a customer's cash account. Balances are held in integer minor
// units (cents); the invariant balance == sum of signed transaction amounts
// holds after every committed unit of work. A customer holds at most one
// open account, and closed accounts are terminal.
type Account struct {
	AccountID    string        `json:"accountID"`
	UserID       string        `json:"userID"`
	BalanceCents int64         `json:"balanceCents"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	ClosedAt     *time.Time    `json:"closedAt,omitempty"`
}

// IsOpen reports whether the account accepts money movement.
func (a Account) IsOpen() bool {
	return a.Status == AccountOpen
}
