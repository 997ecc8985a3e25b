package account

import (
	"errors"
	"strings"
)

// Boundary error values. Guarded transitions never return these.
var (
	ErrUnknownActionKind    = errors.New("unknown action kind")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrUnknownRules         = errors.New("unknown rules")
	ErrInvalidRules         = errors.New("invalid rules")
	ErrInvalidSessionConfig = errors.New("invalid session config")
)

// OperationError tags a boundary failure with the step that produced it.
// Key() gives the stable "operation.subject.code" identifier used in logs.
type OperationError struct {
	Operation string
	Subject   string
	Code      string
	Err       error
}

// Key joins the segments with dots.
func (operationError *OperationError) Key() string {
	return strings.Join([]string{operationError.Operation, operationError.Subject, operationError.Code}, ".")
}

func (operationError *OperationError) Error() string {
	return operationError.Key() + ": " + operationError.Err.Error()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (operationError *OperationError) Unwrap() error {
	return operationError.Err
}

// WrapError returns nil for a nil err, otherwise an *OperationError around it.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, Subject: subject, Code: code, Err: err}
}
