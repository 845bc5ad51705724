package chat

import "github.com/pkg/errors"

// Lookup failures the handler maps to 404. Everything else coming out of the
// service is a dependency failure and collapses to 500.
var (
	// ErrUserNotFound — userId absent from the managed chat directory
	ErrUserNotFound = errors.New("user not found")

	// ErrUserNotStored — userId absent from the Postgres mirror
	ErrUserNotStored = errors.New("user not found in the database")
)
