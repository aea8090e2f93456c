package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const (
	TokenPrefix = "v1."
	digestLabel = "admin"
)

// DigestPrincipal is what a digest token proves: the shared admin login.
var DigestPrincipal = Principal{ID: digestLabel}

type DigestIssuer struct {
	secret string
}

func NewDigestIssuer(secret string) *DigestIssuer {
	return &DigestIssuer{secret: secret}
}

// Issue ignores p: the token only says "is admin".
func (i *DigestIssuer) Issue(Principal) (string, error) {
	if !SecretUsable(i.secret) {
		return "", ErrSecretMissing
	}
	return i.expected(), nil
}

func (i *DigestIssuer) Verify(token string) (*Principal, bool) {
	if token == "" || !strings.HasPrefix(token, TokenPrefix) {
		return nil, false
	}
	if !SecretUsable(i.secret) {
		return nil, false
	}
	expected := i.expected()
	if len(token) != len(expected) {
		return nil, false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return nil, false
	}
	p := DigestPrincipal
	return &p, true
}

// CheckPassword compares a login password with the shared secret in
// constant time.
func (i *DigestIssuer) CheckPassword(password string) bool {
	if !SecretUsable(i.secret) {
		return false
	}
	return hmac.Equal([]byte(password), []byte(i.secret))
}

func (i *DigestIssuer) expected() string {
	m := hmac.New(sha256.New, []byte(i.secret))
	_, _ = m.Write([]byte(digestLabel))
	return TokenPrefix + hex.EncodeToString(m.Sum(nil))
}
