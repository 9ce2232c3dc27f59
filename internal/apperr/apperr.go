// Package apperr carries the error kinds that services return and the HTTP
// layer maps to status codes.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidCredentials
	KindConflict
	KindBadRequest
	KindValidation
	KindForbidden
	KindInvalidToken
	KindNotFound
	KindUnreadable
	KindPersistence
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindInvalidCredentials: "invalid credentials",
	KindConflict:           "conflict",
	KindBadRequest:         "bad request",
	KindValidation:         "validation",
	KindForbidden:          "forbidden",
	KindInvalidToken:       "invalid token",
	KindNotFound:           "not found",
	KindUnreadable:         "unreadable",
	KindPersistence:        "persistence",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Status returns the HTTP status code for k. Unreadable shares 404 with
// NotFound; clients have always seen it that way.
func (k Kind) Status() int {
	switch k {
	case KindInvalidCredentials, KindConflict, KindBadRequest:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindForbidden, KindInvalidToken:
		return http.StatusForbidden
	case KindNotFound, KindUnreadable:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Msg is safe to show to the caller; Err is
// the underlying cause and is only logged.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func NotFound(msg string) *Error   { return New(KindNotFound, msg) }
func Conflict(msg string) *Error   { return New(KindConflict, msg) }
func BadRequest(msg string) *Error { return New(KindBadRequest, msg) }
func Forbidden(msg string) *Error  { return New(KindForbidden, msg) }

// Persistence wraps a store failure.
func Persistence(msg string, err error) *Error {
	return Wrap(KindPersistence, msg, err)
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Internal server error"
}
