// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrRootMissing = errors.New("root config not found")
	ErrNoSelection = errors.New("no selection")
)
