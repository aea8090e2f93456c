package session

import (
	"errors"
	"time"
)

const (
	CookieName      = "admin_session"
	MaxAge          = 60 * 60 * 24 * 7
	TTL             = MaxAge * time.Second
	MinSecretLength = 8
)

var (
	ErrSecretMissing = errors.New("session secret is missing or too short")
	ErrInvalidToken  = errors.New("invalid session token")
)

// Principal is the identity a token proves.
type Principal struct {
	ID    string
	Email string
}

// Issuer mints and checks session tokens.
type Issuer interface {
	Issue(p Principal) (string, error)
	// Verify never fails loudly: any problem yields (nil, false).
	Verify(token string) (*Principal, bool)
}

// SecretUsable reports whether secret meets the minimum length policy.
func SecretUsable(secret string) bool {
	return len(secret) >= MinSecretLength
}
