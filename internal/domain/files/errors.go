package files

import "errors"

var (
	// ErrNotFound covers both "no such node" and "owned by someone else";
	// the two must stay indistinguishable to callers.
	ErrNotFound = errors.New("file not found")

	ErrMissingName     = errors.New("missing name")
	ErrMissingKind     = errors.New("missing type")
	ErrMissingData     = errors.New("missing data")
	ErrInvalidData     = errors.New("invalid data")
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrFolderNoContent = errors.New("a folder doesn't have content")
)
