package handler

import (
	"io"
	"net/http"

	"dispatch-server/internal/apierrors"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/webhooks/processor"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor processor.WebhookProcessor
	logger    *observability.Logger
}

func New(processor processor.WebhookProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleProviderEvent handles POST /api/webhooks/provider.
//
// The provider retries on non-2xx responses, so every processed event is
// acknowledged with 200 regardless of its effect on the call record. Only an
// unreadable or unparseable body gets a 400.
func (h *Handler) HandleProviderEvent(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error(ctx, "failed to read webhook body", err)
		apierrors.Respond(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "unable to read request body"))
		return
	}

	event, err := processor.ParseEvent(payload)
	if err != nil {
		h.logger.Error(ctx, "failed to parse webhook payload", err)
		apierrors.Respond(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "invalid webhook payload"))
		return
	}

	outcome, err := h.processor.HandleEvent(ctx, event)
	if err != nil {
		// Store failures are logged but still acknowledged; the record can
		// be reconciled from provider data later and a retry storm helps
		// nobody.
		h.logger.Error(ctx, "webhook event processing failed", err)
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "event_outcome", Value: string(outcome)})
	h.logger.Info(ctx, "webhook event acknowledged")

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
