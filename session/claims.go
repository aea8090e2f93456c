package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a signed-claim token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type ClaimIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewClaimIssuer(secret string) *ClaimIssuer {
	return &ClaimIssuer{secret: []byte(secret), ttl: TTL, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (i *ClaimIssuer) WithClock(now func() time.Time) *ClaimIssuer {
	i.now = now
	return i
}

func (i *ClaimIssuer) Issue(p Principal) (string, error) {
	if !SecretUsable(string(i.secret)) {
		return "", ErrSecretMissing
	}
	if p.ID == "" || p.Email == "" {
		return "", ErrInvalidToken
	}

	now := i.now()
	claims := Claims{
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *ClaimIssuer) Verify(token string) (*Principal, bool) {
	if token == "" || !SecretUsable(string(i.secret)) {
		return nil, false
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" || claims.Email == "" {
		return nil, false
	}
	return &Principal{ID: claims.Subject, Email: claims.Email}, true
}
