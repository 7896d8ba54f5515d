package apierrors

import (
	"fmt"
	"net/http"
)

// Error codes returned to API clients.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeCallNotFound       = "CALL_NOT_FOUND"
	CodeAgentNotConfigured = "AGENT_NOT_CONFIGURED"
	CodeInvalidPhoneNumber = "INVALID_PHONE_NUMBER"
	CodeInvalidScenario    = "INVALID_SCENARIO"
	CodePhoneCallsDisabled = "PHONE_CALLS_DISABLED"
	CodeConfigNotFound     = "CONFIGURATION_NOT_FOUND"
	CodeVoiceProviderError = "VOICE_PROVIDER_ERROR"
	CodeAIServiceError     = "AI_SERVICE_ERROR"
	CodeEmailServiceError  = "EMAIL_SERVICE_ERROR"
)

// APIError carries an HTTP status, a machine-readable code and a
// client-safe message. The wrapped internal error, when present, is
// logged but never returned to clients.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	internal   error
}

func (e *APIError) Error() string {
	if e.internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.internal
}

// NotFound builds a 404 error.
func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

// BadRequest builds a 400 error.
func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized builds a 401 error.
func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// Conflict builds a 409 error.
func Conflict(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Code: code, Message: message}
}

// BadGateway builds a 502 error wrapping the internal cause.
func BadGateway(code, message string, internalErr error) *APIError {
	return &APIError{StatusCode: http.StatusBadGateway, Code: code, Message: message, internal: internalErr}
}

// ServiceUnavailable builds a 503 error wrapping the internal cause.
func ServiceUnavailable(code, message string, internalErr error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: code, Message: message, internal: internalErr}
}

// InternalError builds a sanitized 500 error wrapping the internal cause.
func InternalError(internalErr error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		internal:   internalErr,
	}
}
