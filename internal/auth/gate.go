package auth

import (
	"strings"

	"taskhub/internal/apperr"
	"taskhub/internal/db/models"
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperr.New(apperr.KindUnreadable, "Not authenticated")
	}
	return strings.TrimSpace(token), nil
}

// AdminOnly admits only admin tokens. Every failure is Forbidden.
func (t *Tokens) AdminOnly(header string) (*Claims, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindForbidden, "Authorization error", err)
	}
	claims, err := t.Validate(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindForbidden, "Token is invalid or expired.", err)
	}
	if !models.Role(claims.Status).IsAdmin() {
		return nil, apperr.Forbidden("Not authorized.")
	}
	return claims, nil
}

// AuthenticatedPhone returns the caller's phone. A bad or expired token is
// Forbidden; anything else that prevents reading the phone is Unreadable.
func (t *Tokens) AuthenticatedPhone(header string) (string, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnreadable, "Some error", err)
	}
	phone, err := t.Phone(raw)
	if err != nil {
		return "", gateError(err)
	}
	return phone, nil
}

// StatusOnly returns the role claim of a raw token with the same failure
// split as AuthenticatedPhone.
func (t *Tokens) StatusOnly(raw string) (string, error) {
	status, err := t.Status(raw)
	if err != nil {
		return "", gateError(err)
	}
	return status, nil
}

func gateError(err error) error {
	if apperr.Is(err, apperr.KindInvalidToken) {
		return apperr.Wrap(apperr.KindForbidden, "Token is invalid or expired", err)
	}
	return apperr.Wrap(apperr.KindUnreadable, "Some error", err)
}
