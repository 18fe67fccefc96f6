// Package apperrors defines the domain error taxonomy shared by services
// and mapped to transport status codes at the API boundary.
package apperrors

import "errors"

var (
	// ErrNotFound indicates a referenced user, lease or review does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates a uniqueness violation, e.g. a duplicate review
	// for the same lease and author.
	ErrConflict = errors.New("resource already exists")

	// ErrForbidden indicates the actor is not a legitimate party to the
	// lease or review.
	ErrForbidden = errors.New("actor is not a party to this resource")

	// ErrInvalidState indicates an action attempted against an entity not in
	// the required state, e.g. reviewing a lease that has not ended.
	ErrInvalidState = errors.New("entity is not in the required state")

	// ErrValidation indicates malformed input, e.g. a rating outside [0,5].
	ErrValidation = errors.New("invalid input")
)
