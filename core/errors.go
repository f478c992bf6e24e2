package core

import "github.com/pkg/errors"

// FieldError ties an input error to the JSON field that caused it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports bad request input, either as a single message or
// broken down per field. The API error handler renders it as a 400.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown is an integrity fault the service cannot work through, e.g. the
// configured web-service token being rejected upstream. Nothing will succeed
// until an operator intervenes, so the API error handler uses it to trigger
// a graceful shutdown.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string { return s.message }

// IsShutdown checks if an error (or its cause) is an integrity fault.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
