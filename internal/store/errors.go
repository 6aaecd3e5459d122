package store

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable wraps any failure coming out of the persistence
// layer. Callers map it to a 500; the store never retries on its own.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ValidationError reports a missing or empty required field.
// User-correctable; callers map it to a 400.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
