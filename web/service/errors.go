package service

import (
	"errors"
	"fmt"
)

// Typed failures surfaced to the dispatcher. All are recoverable and affect
// only the current request.
var (
	// ErrNotFound means a referenced user or comment does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTarget means a self-evaluation or cross-group evaluation attempt.
	ErrInvalidTarget = errors.New("invalid evaluation target")

	// ErrInvalidLevel means the submitted rating level is outside the five defined values.
	ErrInvalidLevel = errors.New("invalid rating level")

	// ErrPasswordMismatch means the new password and its confirmation disagree.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
)

// CredentialError is a credential-level rejection (weak, duplicate or
// incorrect credentials). It carries the provider message verbatim so the
// dispatcher can re-render the originating form with it.
type CredentialError struct {
	Reason string
}

func (e *CredentialError) Error() string {
	return e.Reason
}

func newCredentialErrorf(format string, a ...any) error {
	return &CredentialError{Reason: fmt.Sprintf(format, a...)}
}

// IsCredentialError reports whether err is a CredentialError.
func IsCredentialError(err error) bool {
	var credErr *CredentialError
	return errors.As(err, &credErr)
}
