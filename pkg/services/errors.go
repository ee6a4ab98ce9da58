// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"

	"github.com/dataflow-hq/dataflow/pkg/persistence"
)

// Business logic errors indicating client mistakes (4xx responses).
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrPipelineNil     = errors.New("pipeline cannot be nil")
	ErrConnectionNil   = errors.New("connection cannot be nil")
	ErrTemplateNil     = errors.New("template cannot be nil")
	ErrBuiltinReadOnly = errors.New("built-in templates are read-only")

	// Not-found errors surface the persistence sentinels unchanged.
	ErrPipelineNotFound   = persistence.ErrPipelineNotFound
	ErrConnectionNotFound = persistence.ErrConnectionNotFound
	ErrTemplateNotFound   = persistence.ErrTemplateNotFound
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, message string) *ServiceError {
	return &ServiceError{
		Op:      op,
		Message: message,
		Err:     ErrInvalidRequest,
	}
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrPipelineNil) ||
		errors.Is(err, ErrConnectionNil) ||
		errors.Is(err, ErrTemplateNil) ||
		errors.Is(err, ErrBuiltinReadOnly)
}

// IsNotFoundError checks if an error should map to HTTP 404.
func IsNotFoundError(err error) bool {
	return persistence.IsNotFound(err)
}
