package models

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers. Handlers map them to HTTP statuses.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeIdentityRequired = "IDENTITY_REQUIRED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeTargetNotFound   = "TARGET_NOT_FOUND"
	CodeConcurrentMod    = "CONCURRENT_MODIFICATION"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewIdentityRequiredError() *AppError {
	return &AppError{Code: CodeIdentityRequired, Message: "A signed-in user or an anonymous id is required to vote"}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s with ID %v not found", resource, id)}
}

func NewTargetNotFoundError(kind TargetKind, id uint) *AppError {
	return &AppError{Code: CodeTargetNotFound, Message: fmt.Sprintf("%s with ID %d not found", kind, id)}
}

func NewConcurrentModificationError(err error) *AppError {
	return &AppError{Code: CodeConcurrentMod, Message: "Vote was modified concurrently", Err: err}
}

func NewRateLimitedError() *AppError {
	return &AppError{Code: CodeRateLimited, Message: "Too many votes, slow down"}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// ErrorCode returns the AppError code carried by err, or CodeInternal.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
