// Package shared holds cross-module primitives: error taxonomy, sessions,
// advisory locks and the audit trail.
package shared

import "errors"

var (
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidState indicates an operation against an entity whose current
	// state forbids it, e.g. clocking in while already clocked in.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
