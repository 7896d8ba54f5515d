package apierrors

import (
	"errors"
	"strings"

	callsProcessor "dispatch-server/internal/calls/processor"
	configProcessor "dispatch-server/internal/configurations/processor"
	"dispatch-server/internal/store"
)

// MapError converts domain/processor errors to APIErrors.
// This function centralizes all error mapping logic to ensure consistent
// error responses across the entire API.
//
// If the error is already an APIError, it returns it as-is.
// If the error is a known domain error, it maps it to an appropriate APIError.
// If the error is unknown, it returns a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Call processor errors
	case errors.Is(err, callsProcessor.ErrAgentNotConfigured):
		return BadRequest(CodeAgentNotConfigured, "No agent is configured for this scenario")

	case errors.Is(err, callsProcessor.ErrMissingFromNumber):
		return BadRequest(CodePhoneCallsDisabled, "Outbound phone calls are not configured")

	case errors.Is(err, callsProcessor.ErrInvalidPhoneNumber):
		return BadRequest(CodeInvalidPhoneNumber, "Driver phone number is not valid")

	case errors.Is(err, callsProcessor.ErrCallNotFound):
		return NotFound(CodeCallNotFound, "Call not found")

	case errors.Is(err, callsProcessor.ErrCallLogCreation):
		return InternalError(err)

	case errors.Is(err, callsProcessor.ErrProviderCall):
		return BadGateway(CodeVoiceProviderError, "Voice provider is temporarily unavailable. Please try again later.", err)

	// Configuration processor errors
	case errors.Is(err, configProcessor.ErrInvalidScenario):
		return BadRequest(CodeInvalidScenario, "Scenario type must be checkin or emergency")

	case errors.Is(err, configProcessor.ErrConfigurationNotFound):
		return NotFound(CodeConfigNotFound, "Configuration not found")

	// Store errors
	case errors.Is(err, store.ErrNotFound):
		return NotFound(CodeNotFound, "Resource not found")

	default:
		return mapExternalServiceError(err)
	}
}

// mapExternalServiceError attempts to identify external service errors
// and map them to appropriate service-specific error responses.
func mapExternalServiceError(err error) *APIError {
	errMsg := strings.ToLower(err.Error())

	// AI service errors (OpenAI)
	if strings.Contains(errMsg, "openai") || strings.Contains(errMsg, "extraction") {
		return ServiceUnavailable(
			CodeAIServiceError,
			"AI service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// Email service errors (Resend)
	if strings.Contains(errMsg, "resend") || strings.Contains(errMsg, "email") {
		return ServiceUnavailable(
			CodeEmailServiceError,
			"Email service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// Default: Unknown error - return sanitized 500
	return InternalError(err)
}
