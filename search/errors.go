package search

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is wrapped by PathError when the root is a file.
var ErrNotDirectory = errors.New("not a directory")

// ErrOutsideVault is recorded for notes lying directly in the root.
var ErrOutsideVault = errors.New("note is not inside a vault")

// PathError is returned when the notes root does not exist or is not a directory.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid notes root %q: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// FileError records a note or directory that could not be indexed.
// It is left out of the index and the pass continues.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }
