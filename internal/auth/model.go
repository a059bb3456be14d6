package auth

import (
	"time"

	"dbs-store/internal/user"
)

const (
	SessionCookieName = "dbs_session"
	DefaultSessionTTL = 7 * 24 * time.Hour

	// StoreOrgSlug is the organization whose members may use the back office.
	StoreOrgSlug = "dbs-store"

	MinPasswordLength = 8
	MaxPasswordLength = 128
)

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionWithUser is what a valid session token resolves to.
type SessionWithUser struct {
	Session Session   `json:"session"`
	User    user.User `json:"user"`
}

// SignedIn is returned by every flow that opens a session.
type SignedIn struct {
	Token   string    `json:"-"`
	Session Session   `json:"session"`
	User    user.User `json:"user"`
}

// RequestMeta is stored on new sessions.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type OTPType string

const (
	OTPEmailVerification OTPType = "email-verification"
	OTPForgetPassword    OTPType = "forget-password"
	OTPSignIn            OTPType = "sign-in"
)

func (t OTPType) Valid() bool {
	switch t {
	case OTPEmailVerification, OTPForgetPassword, OTPSignIn:
		return true
	}
	return false
}

// Identifier is the verification row key of an OTP challenge, e.g.
// "forget-password-otp-jane@example.com".
func (t OTPType) Identifier(email string) string {
	return string(t) + "-otp-" + email
}

type Verification struct {
	Identifier string
	Value      string
	ExpiresAt  time.Time
}

type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Role Role   `json:"role"`
}

// ResetCheck is the outcome of a read-only password-reset code check.
type ResetCheck struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

const (
	ReasonNotFound = "not_found"
	ReasonExpired  = "expired"
	ReasonInvalid  = "invalid"
)
