package service

import "errors"

var (
	// Tenant errors
	ErrTenantNotFound = errors.New("tenant not found")
	ErrTenantExists   = errors.New("tenant already exists")

	// User errors
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrTenantReference = errors.New("tenant specified within request body does not exist")

	// Request errors
	ErrIDMismatch = errors.New("path parameter 'id' must match property 'id' within request body")

	// Event errors
	ErrInvalidEvent = errors.New("invalid event")
)

// Kind is the error class a caller can act on.
type Kind int

const (
	KindUnhandled Kind = iota
	KindConflict
	KindNotFound
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	default:
		return "unhandled"
	}
}

// Classify maps an error returned by this package to its Kind. Anything not
// recognised is a store or bus failure.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnhandled
	case errors.Is(err, ErrTenantExists), errors.Is(err, ErrUserExists):
		return KindConflict
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrIDMismatch), errors.Is(err, ErrTenantReference), errors.Is(err, ErrInvalidEvent):
		return KindBadRequest
	default:
		return KindUnhandled
	}
}
