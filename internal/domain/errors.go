// Package domain holds the core types and sentinel errors shared by every
// layer of the normalizer.
package domain

import "errors"

// Sentinel errors used across all layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrValidation      = errors.New("validation error")
	ErrMalformedRule   = errors.New("malformed rule")
	ErrMalformedRecord = errors.New("malformed record")
)
