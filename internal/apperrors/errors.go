// Package apperrors defines the error kinds callers are expected to branch
// on. All four are ordinary business conditions, not defects: handlers map
// them to 404/403/409/401 and everything else to a generic 500.
package apperrors

import "errors"

var (
	// ErrNotFound means a token or id did not resolve to an existing row.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means a mutation was attempted on a locked inventory.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict means an operation conflicts with the current state,
	// e.g. submitting an already-locked inventory.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized means the admin key was missing or did not match.
	ErrUnauthorized = errors.New("unauthorized")
)
