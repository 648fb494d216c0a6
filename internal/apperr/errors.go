// Package apperr holds the sentinel errors shared by the tag field packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// ErrInvalidName is returned when a tag name is empty after trimming.
	ErrInvalidName = errors.New("invalid tag name")
	// ErrInvalidColor is returned when a color is rejected by the catalog.
	ErrInvalidColor = errors.New("invalid color")

	ErrSessionClosed = errors.New("editor session closed")
	ErrNoSession     = errors.New("no editor session open")
	ErrPickerClosed  = errors.New("color picker closed")
)
