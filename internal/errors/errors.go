package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code so wrapped copies compare equal to their sentinel.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Error codes
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeCredentialsRejected = "CREDENTIALS_REJECTED"
	CodeMissingCredential   = "MISSING_CREDENTIAL"
	CodeInvalidCredential   = "INVALID_CREDENTIAL"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeDataIntegrity       = "DATA_INTEGRITY"
	CodeInternal            = "INTERNAL_ERROR"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
)

// Predefined domain errors
var (
	// Registration / login
	ErrValidationFailed    = NewDomainError(CodeValidationFailed, "the given data was invalid")
	ErrCredentialsRejected = NewDomainError(CodeCredentialsRejected, "auth failed")

	// Bearer token rejections. Callers never see which one occurred.
	ErrMissingCredential = NewDomainError(CodeMissingCredential, "missing bearer credential")
	ErrInvalidCredential = NewDomainError(CodeInvalidCredential, "unknown bearer credential")
	ErrTokenExpired      = NewDomainError(CodeTokenExpired, "token has expired")
	ErrOrphanedToken     = NewDomainError(CodeDataIntegrity, "token owner no longer exists")

	// System errors
	ErrInternal           = NewDomainError(CodeInternal, "internal server error")
	ErrServiceUnavailable = NewDomainError(CodeServiceUnavailable, "service unavailable")
)

// FieldErrors carries per-field validation messages, keyed by JSON field name.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// ValidationError is a ValidationFailed domain error with field attribution.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%d fields)", ErrValidationFailed.Message, len(e.Fields))
}

// Unwrap lets errors.Is(err, ErrValidationFailed) succeed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError builds a ValidationError from fields.
func NewValidationError(fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsUnauthenticated reports whether err is any bearer token rejection.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrOrphanedToken)
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 401 Unauthorized
	case CodeMissingCredential, CodeInvalidCredential, CodeTokenExpired, CodeDataIntegrity:
		return http.StatusUnauthorized

	// 422 Unprocessable Entity
	case CodeValidationFailed, CodeCredentialsRejected:
		return http.StatusUnprocessableEntity

	// 503 Service Unavailable
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
