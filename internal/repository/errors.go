package repository

import "errors"

// ErrDuplicateKey maps a Mongo unique-index violation. For answer logs it is
// the signal that an idempotency key has already been applied.
var ErrDuplicateKey = errors.New("duplicate key")
