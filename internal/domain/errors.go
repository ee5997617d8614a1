package domain

import "errors"

// Sentinel errors shared across layers so handlers can map them to stable
// HTTP status codes without inspecting error strings.
var (
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials covers bad login credentials and invalid, expired
	// or unresolvable tokens. Login deliberately returns this same value for
	// both unknown identifiers and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrReuseDetected indicates a validly-signed refresh token that is no
	// longer on record. The whole token family has been revoked as a
	// precaution; the caller must fully re-authenticate.
	ErrReuseDetected = errors.New("refresh token not recognized")

	// ErrForbidden indicates a role/ownership violation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken indicates a unique-email conflict.
	ErrEmailTaken = errors.New("email already registered")

	// ErrRateLimited indicates a temporary login lock after repeated failures.
	ErrRateLimited = errors.New("too many attempts")
)
