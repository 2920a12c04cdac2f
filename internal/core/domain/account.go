package domain

import "time"

// Account is the durable user record and the sole source of truth for login.
type Account struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Legacy link-based reset artifacts, empty unless a reset link is pending.
	ResetTokenHash      string
	ResetTokenExpiresAt *time.Time
}

// PublicAccount is the client-facing projection of an Account.
type PublicAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public strips credential material from the account.
func (a Account) Public() PublicAccount {
	return PublicAccount{ID: a.ID, Name: a.Name, Email: a.Email}
}
