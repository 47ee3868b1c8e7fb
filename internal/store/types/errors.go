package types

import "errors"

var (
	// ErrNotFound is returned when an entity ID does not resolve.
	ErrNotFound = errors.New("entity not found")
	// ErrConflict is returned on duplicate unique keys, such as joining a
	// group twice with the same user.
	ErrConflict = errors.New("entity already exists")
	// ErrForbidden is returned when the acting user does not own the
	// resource being mutated.
	ErrForbidden = errors.New("actor does not own this resource")
	// ErrInvalidState is returned when an operation is not valid for the
	// entity's current state, such as voting on a closed poll.
	ErrInvalidState = errors.New("operation not valid in current state")
)
