package types

import "fmt"

// ErrorCode classifies a failure kind across the engine.
type ErrorCode string

// Pipeline error codes. All of these are expected outcomes: they are
// converted into FAILED results, never raised across the boundary.
const (
	ErrScriptInvalid          ErrorCode = "SCRIPT_INVALID"
	ErrChannelMismatch        ErrorCode = "CHANNEL_MISMATCH"
	ErrNoProviderAvailable    ErrorCode = "NO_PROVIDER_AVAILABLE"
	ErrProviderRequestInvalid ErrorCode = "PROVIDER_REQUEST_INVALID"
	ErrProviderGeneration     ErrorCode = "PROVIDER_GENERATION_FAILURE"
	ErrJobNotFound            ErrorCode = "JOB_NOT_FOUND"
	ErrOrchestrationFault     ErrorCode = "ORCHESTRATION_FAULT"
)

// Error is a structured error with a code, message, and optional
// provider attribution and cause.
type Error struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Provider string    `json:"provider,omitempty"`
	Cause    error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithProvider sets the provider attribution.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
