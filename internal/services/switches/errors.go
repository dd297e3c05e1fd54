package switches

import (
	"errors"
	"strings"
)

const UnexpectedMessage = "An unexpected error occurred"

var ErrNotConfirmed = errors.New("deletion not confirmed")

type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every rejected field in declaration order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) UserMessage() string {
	if len(e.Fields) == 0 {
		return "Invalid input"
	}
	return e.Fields[0].Message
}

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

type userMessager interface {
	UserMessage() string
}

// UserMessage is the text shown to a user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotConfirmed) {
		return "Deletion cancelled"
	}
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return UnexpectedMessage
}
