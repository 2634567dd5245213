package domain

import "errors"

// Not found.
var (
	ErrBookNotFound   = errors.New("book not found")
	ErrMemberNotFound = errors.New("member not found")
)

// Business preconditions.
var ErrNoCopiesAvailable = errors.New("no copies available for this book")

// Rejected input that passed request validation.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// Authentication and authorisation.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
)

// Conflicts with stored state.
var (
	ErrEmailTaken  = errors.New("email already registered")
	ErrBookInUse   = errors.New("book is referenced by borrow records")
	ErrMemberInUse = errors.New("member is referenced by borrow records")

	ErrIdempotencyKeyReused = errors.New("idempotency key reused with a different request")
)
