// Package service holds the authentication core and the domain services.
// Services return *Error values whose Kind is one of the sentinels below;
// the HTTP boundary maps kinds to status codes.
package service

import "errors"

// Error kinds.
var (
	ErrAuthenticationFailed  = errors.New("invalid credentials")
	ErrTokenInvalidOrExpired = errors.New("invalid or expired refresh token")
	ErrTokenAlreadyRevoked   = errors.New("token already revoked or unknown")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrValidation            = errors.New("validation failed")
)

// Error is a classified, caller-safe failure.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func notFound(msg string) error { return newError(ErrNotFound, msg) }
func conflict(msg string) error { return newError(ErrConflict, msg) }
func invalid(msg string) error { return newError(ErrValidation, msg) }
