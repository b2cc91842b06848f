package models

import "errors"

var (
	// ErrShoeNotFound is returned when no shoe matches a slug
	ErrShoeNotFound = errors.New("shoe not found")
	// ErrMissingSlug is returned for a shoe without a slug
	ErrMissingSlug = errors.New("shoe slug is required")
	// ErrMissingName is returned for a shoe without a name
	ErrMissingName = errors.New("shoe name is required")
)
