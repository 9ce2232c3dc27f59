package auth

import (
	"fmt"
	"time"

	"taskhub/internal/apperr"
	"taskhub/internal/db/models"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the payload of a session token. Subject carries the phone.
type Claims struct {
	Status string `json:"status"`
	jwt.RegisteredClaims
}

// Tokens issues and validates HS256 session tokens. It holds no state beyond
// the secret, so validation never touches the store.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a token service. A ttl of zero issues tokens without an
// exp claim.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for iat/exp.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	t.now = now
	return t
}

// Issue signs a token for phone with the given role.
func (t *Tokens) Issue(phone string, role models.Role) (string, error) {
	now := t.now()
	claims := &Claims{
		Status: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  phone,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and expiry of raw and returns its claims.
func (t *Tokens) Validate(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &Claims{}
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Wrap(apperr.KindInvalidToken, "Token is invalid or expired", err)
	}
	if !claims.VerifyExpiresAt(t.now(), false) {
		return nil, apperr.New(apperr.KindInvalidToken, "Token is invalid or expired")
	}
	return claims, nil
}

// Phone validates raw and returns its subject.
func (t *Tokens) Phone(raw string) (string, error) {
	claims, err := t.Validate(raw)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", apperr.New(apperr.KindUnreadable, "Some error")
	}
	return claims.Subject, nil
}

// Status validates raw and returns its role claim.
func (t *Tokens) Status(raw string) (string, error) {
	claims, err := t.Validate(raw)
	if err != nil {
		return "", err
	}
	if claims.Status == "" {
		return "", apperr.New(apperr.KindUnreadable, "Some error")
	}
	return claims.Status, nil
}
