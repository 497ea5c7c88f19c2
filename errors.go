package main

import (
	"errors"
	"fmt"
)

// Errors surfaced by the bound App methods.
var (
	ErrNoDeck            = errors.New("no presentation loaded")
	ErrExportInProgress  = errors.New("an export is already running")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrEmptyTopic        = errors.New("topic is empty")
)

// ServiceError is the error type returned across service boundaries.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error formats as [Service.Operation] message.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s.%s] %v", e.Service, e.Operation, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// WrapError attaches service context to err. A nil err stays nil.
func WrapError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Service: service, Operation: operation, Err: err}
}

// WrapOperationError wraps an error with a consistent "failed to {operation}: %w" format.
//
// Example:
//
//	if err := os.WriteFile(path, data, 0600); err != nil {
//		return WrapOperationError("write export", err)
//	}
func WrapOperationError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// WrapOperationErrorf is WrapOperationError with a formatted operation.
func WrapOperationErrorf(format string, err error, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", fmt.Sprintf(format, args...), err)
}
