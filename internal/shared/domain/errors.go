package domain

import "errors"

var (
	ErrNotExist = errors.New("does not exist")
	// ErrConflict is returned by repositories when a conditional write
	// matched no row or was skipped by a uniqueness constraint.
	ErrConflict = errors.New("conflicting write")
)
