package apierrors

import (
	"dispatch-server/internal/observability"

	"github.com/gin-gonic/gin"
)

var logger = observability.NewLogger()

// ErrorResponse is the JSON structure returned to API clients
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Respond writes the APIError as a JSON response and logs correlation info.
// Internal causes are logged but never exposed to clients.
func Respond(c *gin.Context, apiErr *APIError) {
	ctx := c.Request.Context()
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "status_code", Value: apiErr.StatusCode},
		observability.Field{Key: "error_code", Value: apiErr.Code},
		observability.Field{Key: "error_message", Value: apiErr.Message},
	)
	if apiErr.internal != nil {
		logger.Error(ctx, "API error response", apiErr.internal)
	} else {
		logger.Info(ctx, "API error response")
	}

	c.JSON(apiErr.StatusCode, ErrorResponse{
		Error: apiErr.Message,
		Code:  apiErr.Code,
	})
}

// RespondWithError maps any error to an APIError and writes it.
func RespondWithError(c *gin.Context, err error) {
	Respond(c, MapError(err))
}
