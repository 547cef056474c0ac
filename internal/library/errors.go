// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package library

import (
	"errors"
	"fmt"
)

// Error kinds returned by Service. Match them with errors.Is.
var (
	// ErrNotFound means the playlist or share token does not exist or is not
	// owned by the caller. The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when an owner creates a second playlist
	// with a name they already use.
	ErrDuplicateName = errors.New("playlist name already exists")

	// ErrValidation wraps rejected input.
	ErrValidation = errors.New("validation failed")

	// ErrStorage wraps every failure of the underlying store.
	ErrStorage = errors.New("storage failure")

	// ErrConflict is returned, wrapped in ErrStorage, when a history write
	// keeps losing the version check.
	ErrConflict = errors.New("concurrent update conflict")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// outcome classifies err for the library operations metric.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateName):
		return "duplicate"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
