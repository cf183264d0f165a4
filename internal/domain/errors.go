package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
// Anything that wraps none of them is treated as an infrastructure failure.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrAlreadyLoggedIn   = errors.New("user already logged in")
	ErrAlreadyVerified   = errors.New("user already verified")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrAttemptsExceeded  = errors.New("verification attempts exceeded")
)
