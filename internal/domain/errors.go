package domain

import "fmt"

// ValidationError signals rejected input: a missing required customer field,
// an invalid status value, a non-positive quantity or price. Callers present
// Message to the user; nothing is silently defaulted.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError signals a failed persistence operation (serialization or
// write failure). Hint carries the user-facing remediation text.
type StorageError struct {
	Op   string
	Hint string
	Err  error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s failed", e.Op)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps a persistence failure with the standard remediation
// hint shown to users when the store rejects a write.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{
		Op:   op,
		Hint: "No se pudo guardar. Elimine registros antiguos e intente nuevamente.",
		Err:  err,
	}
}

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Hint   string            `json:"hint,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeStorage      = "storage_error"
	ErrorTypeInternal     = "internal_error"
)
