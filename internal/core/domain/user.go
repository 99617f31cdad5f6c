package domain

import "time"

// UserRole gates access to the operator endpoints.
type UserRole string

const (
	RoleUser     UserRole = "user"
	RoleOperator UserRole = "operator"
)

// User is a registered customer or bank operator.
type User struct {
	UserID       string     `json:"userID"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Roles        []UserRole `json:"roles"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// HasRole reports whether the user carries the given role.
func (u User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RefreshToken is a stored, hashed refresh token. Tokens rotate on use and
// are revoked individually.
type RefreshToken struct {
	JTI       string    `json:"jti"`
	UserID    string    `json:"userID"`
	TokenHash string    `json:"-"`
	Revoked   bool      `json:"revoked"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
