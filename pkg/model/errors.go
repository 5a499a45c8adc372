package model

import "fmt"

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the API.
type APIError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// IndexOutOfRangeError is returned when a position does not address a problem.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("problem index %d out of range [0, %d)", e.Index, e.Len)
}

// MalformedProblemError reports a problem record that failed validation.
// Index is the record's position in its source, or -1 when unknown.
type MalformedProblemError struct {
	ID      string
	Index   int
	Details []FieldError
}

func (e *MalformedProblemError) Error() string {
	where := e.ID
	if e.Index >= 0 {
		where = fmt.Sprintf("#%d", e.Index)
		if e.ID != "" {
			where += " (" + e.ID + ")"
		}
	}
	msg := "malformed problem record " + where
	for i, d := range e.Details {
		sep := ", "
		if i == 0 {
			sep = ": "
		}
		msg += sep + d.Field + " " + d.Message
	}
	return msg
}

// APIError converts the validation failure into an API error.
func (e *MalformedProblemError) APIError() *APIError {
	details := make([]FieldError, len(e.Details))
	for i, d := range e.Details {
		d.Path = fmt.Sprintf("problems[%d]", e.Index)
		details[i] = d
	}
	return NewValidationError(e.Error(), details...)
}
