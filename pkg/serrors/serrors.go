package serrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel repositories wrap when a row is absent. The
// HTTP layer maps anything in its chain onto 404.
var ErrNotFound = errors.New("not found")

// Base is a coded error that maps 1:1 onto the API error payload.
type Base struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *Base) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, field string) *Base {
	return &Base{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

func WithField(err *Base, field string) *Base {
	return &Base{
		Code:    err.Code,
		Message: err.Message,
		Field:   field,
	}
}
