package service

import (
	"errors"
	"fmt"

	"github.com/templui/shelf/internal/validation"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindForbidden
	KindNotFound
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error classifies a failure the caller can act on. Field names the
// offending input for validation errors.
type Error struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return 0
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSelfFollow         = errors.New("you cannot follow yourself")
	ErrSelfUnfollow       = errors.New("you cannot unfollow yourself")
	ErrListNotOwned       = errors.New("list belongs to another user")
	ErrListTypeMismatch   = errors.New("content type does not fit this list")
	ErrInvalidContentType = errors.New("content type must be movie or book")
	ErrInvalidMode        = errors.New("mode must be top-rated or popular")
	ErrUploadsDisabled    = errors.New("avatar uploads are not configured")
	ErrPageOutOfRange     = errors.New("page is out of range")
)

func invalid(field string, err error) error {
	return &Error{Kind: KindValidation, Field: field, Err: err}
}

func forbidden(err error) error {
	return &Error{Kind: KindForbidden, Err: err}
}

func notFound(err error) error {
	return &Error{Kind: KindNotFound, Err: err}
}

func conflict(field string, err error) error {
	return &Error{Kind: KindConflict, Field: field, Err: err}
}

// validationError lifts a validation failure into a service error, keeping
// the field name when the validator reported one.
func validationError(field string, err error) error {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return &Error{Kind: KindValidation, Field: fe.Field, Err: errors.New(fe.Message)}
	}
	return invalid(field, err)
}
