package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every store. Callers branch on these with
// errors.Is; user-facing layers map them to their own error surfaces.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock means a requested quantity exceeds the
	// medicine's current on-hand quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrPersistence means a storage-layer fault. For the bill transaction
	// it implies a full rollback: the ledger is left exactly as before.
	ErrPersistence = errors.New("storage failure")
)

// ValidationError wraps malformed or missing user input with a
// human-readable detail. The operation aborts and state is unchanged.
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Details)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
