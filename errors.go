package migsplit

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDownMarker   = errors.New("missing down marker")
	ErrDuplicateDownMarker = errors.New("duplicate down marker")
	ErrDuplicateUpMarker   = errors.New("duplicate up marker")

	ErrOutputIsSource = errors.New("output directory would replace a source file")
	ErrOutputClaimed  = errors.New("output directory is shared with another source file")
	ErrOutputNotDir   = errors.New("output path exists and is not a directory")
)

// MalformedMigrationFileError is returned when a migration file cannot be
// split into exactly one up and one down section.
type MalformedMigrationFileError struct {
	File   string
	Marker string
	Err    error
}

func (e *MalformedMigrationFileError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("malformed migration: %v `%s`", e.Err, e.Marker)
	}
	return fmt.Sprintf("malformed migration %s: %v `%s`", e.File, e.Err, e.Marker)
}

func (e *MalformedMigrationFileError) Unwrap() error {
	return e.Err
}

// OutputConflictError is returned when the output directory of a source file
// clashes with another file, so writing it would destroy or overwrite data.
type OutputConflictError struct {
	File  string // source being split
	Dir   string // output directory it maps to
	Other string // the file the output clashes with
	Err   error
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("cannot split %s into %s: %v: %s", e.File, e.Dir, e.Err, e.Other)
}

func (e *OutputConflictError) Unwrap() error {
	return e.Err
}
