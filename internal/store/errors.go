package store

import (
	"errors"
	"fmt"
)

// StorageError reports a failure to load or save the document.
type StorageError struct {
	// Op is one of "get", "set", "decode", "encode".
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is or wraps a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ErrParamSetNotFound is returned for an unknown preset id or name.
var ErrParamSetNotFound = errors.New("param set not found")
