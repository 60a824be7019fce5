// Package repository implements MySQL persistence for the platform.
// This file defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrConflict signals that an operation cannot proceed due
// to existing dependent records.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a table that still has confirmed reservations. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrTableNotFound is returned when the requested dining table does
// not exist or is inactive.
var ErrTableNotFound = errors.New("table not found")

// ErrIngredientNotFound is returned when the referenced ingredient
// does not exist.
var ErrIngredientNotFound = errors.New("ingredient not found")

// ErrMenuItemNotFound is returned when the referenced menu item does
// not exist or has been soft deleted.
var ErrMenuItemNotFound = errors.New("menu item not found")
