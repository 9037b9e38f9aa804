package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for catalog operations
var (
	// ErrValidation indicates user-supplied book fields were rejected
	ErrValidation = errors.New("invalid book")

	// ErrCorruptStorage indicates durable storage exists but cannot be decoded
	ErrCorruptStorage = errors.New("catalog storage is corrupt")

	// ErrStorageWrite indicates the catalog could not be written to durable storage
	ErrStorageWrite = errors.New("failed to write catalog storage")
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + " " + e.Message
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// HasField reports whether the named field was rejected.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// CorruptStorageError wraps a decode failure for a storage location.
type CorruptStorageError struct {
	Location string
	Err      error
}

func (e *CorruptStorageError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrCorruptStorage, e.Location, e.Err)
}

func (e *CorruptStorageError) Unwrap() error { return e.Err }

func (e *CorruptStorageError) Is(target error) bool {
	return target == ErrCorruptStorage
}

// StorageWriteError wraps a persistence failure for a storage location.
type StorageWriteError struct {
	Location string
	Err      error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrStorageWrite, e.Location, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

func (e *StorageWriteError) Is(target error) bool {
	return target == ErrStorageWrite
}
