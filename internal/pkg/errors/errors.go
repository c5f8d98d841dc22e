package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeInternal        = "INTERNAL_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeDataIntegrity   = "DATA_INTEGRITY_ERROR"
	CodeDeserialization = "DESERIALIZATION_ERROR"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodeInfrastructure  = "INFRASTRUCTURE_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeBadRequest      = "BAD_REQUEST"
)

// AppError represents an application error with context
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	StatusCode int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithError wraps an underlying error
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Internal creates an internal server error
func Internal(message string) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Validation creates a validation error
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// DataIntegrity creates an error for a metadata row whose blob is missing or empty
func DataIntegrity(message string) *AppError {
	return New(CodeDataIntegrity, message, http.StatusInternalServerError)
}

// Deserialization creates an error wrapping a parse failure of persisted JSON
func Deserialization(message string, cause error) *AppError {
	return New(CodeDeserialization, message, http.StatusInternalServerError).WithError(cause)
}

// Upstream creates an error for a non-success response from an upstream API
func Upstream(message string, upstreamStatus int) *AppError {
	e := New(CodeUpstream, message, http.StatusBadGateway)
	return e.WithDetail("upstreamStatus", fmt.Sprintf("%d", upstreamStatus))
}

// Infrastructure creates an error for a storage or network transport fault
func Infrastructure(message string, cause error) *AppError {
	return New(CodeInfrastructure, message, http.StatusInternalServerError).WithError(cause)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error if present
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func hasCode(err error, code string) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsDataIntegrity checks if the error is a data integrity error
func IsDataIntegrity(err error) bool {
	return hasCode(err, CodeDataIntegrity)
}

// IsDeserialization checks if the error is a deserialization error
func IsDeserialization(err error) bool {
	return hasCode(err, CodeDeserialization)
}

// IsUpstream checks if the error is an upstream error
func IsUpstream(err error) bool {
	return hasCode(err, CodeUpstream)
}

// IsInfrastructure checks if the error is an infrastructure error
func IsInfrastructure(err error) bool {
	return hasCode(err, CodeInfrastructure)
}

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool {
	return hasCode(err, CodeUnauthorized)
}
