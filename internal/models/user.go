package models

import "time"

// User represents a row of the users table. Roles are stored as a text
// array.
type User struct {
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Roles        []string  `db:"roles"`
	CreatedAt    time.Time `db:"created_at"`
}

// RefreshToken represents a row of the refresh_tokens table.
type RefreshToken struct {
	JTI       string    `db:"jti"`
	UserID    string    `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	Revoked   bool      `db:"revoked"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
