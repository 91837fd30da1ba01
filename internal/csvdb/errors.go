package csvdb

import (
	"errors"
	"fmt"
)

// ErrCorrupt is wrapped by every StorageError caused by file content that
// cannot be parsed as the table's rows.
var ErrCorrupt = errors.New("corrupt table")

var (
	errMissingHeader  = errors.New("missing header")
	errHeaderMismatch = errors.New("header does not match columns")
	errCarriageReturn = errors.New("text cell contains a carriage return")
)

// StorageError reports a failure to read or write the backing file.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func corrupt(path string, line int, err error) *StorageError {
	return &StorageError{Op: "load", Path: path, Err: fmt.Errorf("%w: line %d: %w", ErrCorrupt, line, err)}
}
