package user

import "time"

type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	PasswordHash  *string   `json:"-"`
	Image         *string   `json:"image"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasPassword reports whether the user can sign in with email and password.
// Social-only accounts have no hash.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Account links a social identity to a user.
type Account struct {
	ID                string
	UserID            string
	Provider          string
	ProviderAccountID string
	CreatedAt         time.Time
}

type CreateParams struct {
	Name          string
	Email         string
	PasswordHash  *string
	EmailVerified bool
	Image         *string
}

// Profile is the account page ("Mon profil").
type Profile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	MaskedEmail   string    `json:"maskedEmail"`
	EmailVerified bool      `json:"emailVerified"`
	Image         *string   `json:"image"`
	MemberSince   time.Time `json:"memberSince"`
}
