package service

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFields is returned for malformed input; no state is touched.
	ErrMissingFields = errors.New("missing required fields")

	// ErrNoQuestions means no question is eligible for the user.
	ErrNoQuestions = errors.New("no questions available")

	ErrQuestionNotFound = errors.New("question not found")
	ErrStateNotFound    = errors.New("user state not found")

	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// VersionConflictError signals an optimistic-concurrency failure. The caller
// must refetch state at CurrentVersion before retrying; the server never
// retries on its behalf.
type VersionConflictError struct {
	CurrentVersion int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("state version mismatch, current version is %d", e.CurrentVersion)
}
