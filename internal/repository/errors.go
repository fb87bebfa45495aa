package repository

import (
	"errors"
	"fmt"
)

// ErrPlaceNotFound is returned when no cached place matches the identifier,
// including when a user action references an unknown place.
var ErrPlaceNotFound = errors.New("place not found")

// StorageError reports a failed read or write against the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
