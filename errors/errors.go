package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another *AppError by code, so errors.Is(err, &AppError{Code: c})
// works across wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError with retryability derived from code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// NotFound reports a missing resource. The message is what clients see.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("%s not found", capitalize(resource)), http.StatusNotFound).
		WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("Invalid input: %s", reason), http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation carries an already formatted validation message.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("Missing required field: %s", field), http.StatusBadRequest).
		WithDetail("field", field)
}

func PayloadTooLarge(limit int64) *AppError {
	return New(ErrCodeTooLarge, fmt.Sprintf("Request body exceeds %d bytes", limit), http.StatusRequestEntityTooLarge).
		WithDetail("limit", limit)
}

func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
}

// StagingFailed reports that uploaded audio could not be staged locally.
func StagingFailed(cause error) *AppError {
	return New(ErrCodeStagingFailed, "Failed to stage uploaded audio", http.StatusInternalServerError).
		WithCause(cause)
}

// StorageUnavailable reports a blob store write or read failure.
func StorageUnavailable(op string, cause error) *AppError {
	return New(ErrCodeStorageUnavailable, fmt.Sprintf("Audio storage %s failed", op), http.StatusServiceUnavailable).
		WithDetail("operation", op).
		WithCause(cause)
}

// TranscriptionFailed reports a hard error from the speech backend.
func TranscriptionFailed(provider string, cause error) *AppError {
	msg := "Transcription failed"
	if cause != nil {
		msg = fmt.Sprintf("Transcription failed: %v", cause)
	}
	return New(ErrCodeTranscriptionFailed, msg, http.StatusInternalServerError).
		WithDetail("provider", provider).
		WithCause(cause)
}

// PersistenceFailed reports a record store write failure.
func PersistenceFailed(op string, cause error) *AppError {
	return New(ErrCodePersistenceFailed, fmt.Sprintf("Failed to %s conversation", op), http.StatusInternalServerError).
		WithDetail("operation", op).
		WithCause(cause)
}

// Configuration reports invalid or missing configuration for a subsystem.
func Configuration(subsystem string, cause error) *AppError {
	return New(ErrCodeConfiguration, fmt.Sprintf("%s is not configured", subsystem), http.StatusInternalServerError).
		WithDetail("subsystem", subsystem).
		WithCause(cause)
}

func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service), http.StatusServiceUnavailable).
		WithDetail("service", service)
}

func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long. Please try again.", http.StatusGatewayTimeout).
		WithDetail("operation", operation)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred", http.StatusInternalServerError).
		WithCause(cause)
}

// Wrap returns err as an *AppError, wrapping foreign errors as Internal.
// A nil err stays nil.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// AsAppError extracts the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func capitalize(s string) string {
	if s == "" {
		return "Resource"
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-32) + s[1:]
	}
	return s
}
