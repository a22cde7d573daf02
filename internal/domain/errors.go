package domain

import "errors"

var (
	// ErrNotFound signals that no reference table holds a row for the identifier.
	ErrNotFound = errors.New("not found")
	// ErrInvalidNIIN signals an identifier that does not normalize to a 9-digit NIIN.
	ErrInvalidNIIN = errors.New("invalid niin")
	// ErrInvalidRequest signals malformed pagination or request parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStorageUnavailable signals a failure of a lookup no answer can be built without.
	ErrStorageUnavailable = errors.New("reference storage unavailable")
)
