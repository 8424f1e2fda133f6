package domain

import "errors"

// Catalog errors, returned when a category table cannot be turned into a Classifier.
var (
	ErrUnknownCategory   = errors.New("unknown category")
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrMissingCategory   = errors.New("missing category")
	ErrFallbackKeywords  = errors.New("fallback category must not have keywords")
)
