package handler

import (
	"net/http"

	"dispatch-server/internal/apierrors"
	"dispatch-server/internal/calls/processor"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.CallProcessor
	logger    *observability.Logger
}

func New(processor processor.CallProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// InitiatePhoneCallRequest represents the HTTP request for starting a phone call
type InitiatePhoneCallRequest struct {
	DriverName   string `json:"driver_name" binding:"required,min=1,max=200"`
	DriverPhone  string `json:"driver_phone" binding:"required"`
	LoadNumber   string `json:"load_number" binding:"required,min=1,max=100"`
	ScenarioType string `json:"scenario_type" binding:"required,oneof=checkin emergency"`
}

// InitiateWebCallRequest represents the HTTP request for starting a browser call
type InitiateWebCallRequest struct {
	DriverName   string `json:"driver_name" binding:"required,min=1,max=200"`
	LoadNumber   string `json:"load_number" binding:"required,min=1,max=100"`
	ScenarioType string `json:"scenario_type" binding:"required,oneof=checkin emergency"`
}

// InitiatedCallResponse is returned after a call has been started
type InitiatedCallResponse struct {
	CallID         uuid.UUID `json:"call_id"`
	ProviderCallID string    `json:"provider_call_id"`
	AccessToken    string    `json:"access_token,omitempty"`
	Status         string    `json:"status"`
}

// HandleInitiatePhoneCall handles POST /api/calls/initiate
func (h *Handler) HandleInitiatePhoneCall(c *gin.Context) {
	ctx := c.Request.Context()

	var req InitiatePhoneCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	result, err := h.processor.InitiatePhoneCall(ctx, req.DriverName, req.DriverPhone, req.LoadNumber, req.ScenarioType)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, InitiatedCallResponse{
		CallID:         result.CallLog.ID,
		ProviderCallID: result.CallLog.ProviderCallID.String,
		Status:         result.CallLog.CallStatus,
	})
}

// HandleInitiateWebCall handles POST /api/calls/initiate-web
func (h *Handler) HandleInitiateWebCall(c *gin.Context) {
	ctx := c.Request.Context()

	var req InitiateWebCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	result, err := h.processor.InitiateWebCall(ctx, req.DriverName, req.LoadNumber, req.ScenarioType)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, InitiatedCallResponse{
		CallID:         result.CallLog.ID,
		ProviderCallID: result.CallLog.ProviderCallID.String,
		AccessToken:    result.AccessToken,
		Status:         result.CallLog.CallStatus,
	})
}

// CallLogResponse is the public shape of a call record
type CallLogResponse struct {
	ID             uuid.UUID   `json:"id"`
	DriverName     string      `json:"driver_name"`
	DriverPhone    string      `json:"driver_phone"`
	LoadNumber     string      `json:"load_number"`
	ScenarioType   string      `json:"scenario_type"`
	CallStatus     string      `json:"call_status"`
	ProviderCallID string      `json:"provider_call_id,omitempty"`
	RawTranscript  string      `json:"raw_transcript,omitempty"`
	StructuredData store.JSONB `json:"structured_data,omitempty"`
	CreatedAt      string      `json:"created_at"`
}

func toCallLogResponse(callLog store.CallLog) CallLogResponse {
	return CallLogResponse{
		ID:             callLog.ID,
		DriverName:     callLog.DriverName,
		DriverPhone:    callLog.DriverPhone,
		LoadNumber:     callLog.LoadNumber,
		ScenarioType:   callLog.ScenarioType,
		CallStatus:     callLog.CallStatus,
		ProviderCallID: callLog.ProviderCallID.String,
		RawTranscript:  callLog.RawTranscript.String,
		StructuredData: callLog.StructuredData,
		CreatedAt:      callLog.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleGetCall handles GET /api/calls/:call_id
func (h *Handler) HandleGetCall(c *gin.Context) {
	ctx := c.Request.Context()

	callID, err := uuid.Parse(c.Param("call_id"))
	if err != nil {
		h.logger.Error(ctx, "failed to parse call id", err)
		apierrors.Respond(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "call_id must be a valid UUID"))
		return
	}

	callLog, err := h.processor.GetCall(ctx, callID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCallLogResponse(callLog))
}

// HandleListCalls handles GET /api/calls
func (h *Handler) HandleListCalls(c *gin.Context) {
	ctx := c.Request.Context()

	orderBy := c.DefaultQuery("order_by", "created_at")
	ascending := c.Query("ascending") == "true"

	callLogs, err := h.processor.ListCalls(ctx, orderBy, ascending)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	responses := make([]CallLogResponse, 0, len(callLogs))
	for _, callLog := range callLogs {
		responses = append(responses, toCallLogResponse(callLog))
	}

	c.JSON(http.StatusOK, gin.H{"calls": responses})
}
