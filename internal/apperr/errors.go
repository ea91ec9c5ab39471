package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for presentation to the caller.
type Kind string

const (
	// Validation covers missing or malformed caller input.
	Validation Kind = "VALIDATION_ERROR"
	// Provider covers failed or unusable responses from an external API.
	Provider Kind = "PROVIDER_ERROR"
	// Request covers anything unexpected while handling the request itself.
	Request Kind = "REQUEST_ERROR"
)

// Status maps the kind to the HTTP status code it is reported with.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Detail is the underlying cause as a string, empty when there is none.
func (e *Error) Detail() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, and false when
// err carries none.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
