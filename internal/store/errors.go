package store

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Match them with errors.Is.
var (
	// ErrNotFound indicates a missing record, or a create whose reference
	// requirements were not met.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail indicates a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email taken")
)

// Entity names used in Error.Entity.
const (
	EntityUser    = "user"
	EntityPost    = "post"
	EntityComment = "comment"

	// EntityUserOrPost is reported by CreateComment, which does not say
	// which of its two references failed.
	EntityUserOrPost = "user or post"
)

// Error describes a failed store operation.
type Error struct {
	// Kind is ErrNotFound or ErrDuplicateEmail.
	Kind error

	// Entity names the record kind the failure concerns.
	Entity string

	// Ref is the id (or email, for ErrDuplicateEmail) that was looked up.
	Ref string
}

func (e *Error) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("%s %s", e.Entity, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s", e.Entity, e.Kind, e.Ref)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(entity, ref string) *Error {
	return &Error{Kind: ErrNotFound, Entity: entity, Ref: ref}
}

func duplicateEmail(email string) *Error {
	return &Error{Kind: ErrDuplicateEmail, Entity: EntityUser, Ref: email}
}
