package lms

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the stores and the submission engine. Handlers
// map these onto HTTP status codes in one place.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

// UnsupportedQuestionTypeError is returned by the grading resolver when a
// question carries a type it has no strategy for. The submission engine
// treats it as fatal to the whole batch: skipping the answer would shrink
// the score denominator silently.
type UnsupportedQuestionTypeError struct {
	Type string
}

func (e *UnsupportedQuestionTypeError) Error() string {
	return fmt.Sprintf("unsupported question type %q", e.Type)
}

// StorageError wraps a database failure after the transaction has been
// rolled back. Callers decide whether to retry; this layer never does.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}
