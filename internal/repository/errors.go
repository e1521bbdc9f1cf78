// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when an insert violates a unique
// constraint, such as creating a course with a duplicate title or
// ordering the same course twice. Handlers should translate this into
// an HTTP 409 response.
var ErrAlreadyExists = errors.New("already exists")

// ErrEmailExists is returned when a user insert or update collides with
// an existing email address.
var ErrEmailExists = errors.New("email already exists")
