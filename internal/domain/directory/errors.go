package directory

import (
	"errors"
	"fmt"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrEmptyFile      = errors.New("file is empty")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps a failure of the database or the image store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr leaves domain errors untouched so callers can still match them.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMemberNotFound) {
		return err
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return err
	}
	var storage *StorageError
	if errors.As(err, &storage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
