package handler

import (
	"net/http"

	"dispatch-server/internal/apierrors"
	"dispatch-server/internal/configurations/processor"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.ConfigurationProcessor
	logger    *observability.Logger
}

func New(processor processor.ConfigurationProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// SaveConfigurationRequest represents the HTTP request for saving a configuration
type SaveConfigurationRequest struct {
	ScenarioType  string      `json:"scenario_type" binding:"required,oneof=checkin emergency"`
	SystemPrompt  string      `json:"system_prompt" binding:"required,min=1"`
	VoiceSettings store.JSONB `json:"voice_settings,omitempty"`
}

// ConfigurationResponse is the public shape of an agent configuration
type ConfigurationResponse struct {
	ID            uuid.UUID   `json:"id"`
	ScenarioType  string      `json:"scenario_type"`
	SystemPrompt  string      `json:"system_prompt"`
	VoiceSettings store.JSONB `json:"voice_settings"`
	LLMID         string      `json:"llm_id,omitempty"`
	AgentID       string      `json:"agent_id,omitempty"`
}

func toConfigurationResponse(config store.AgentConfiguration) ConfigurationResponse {
	return ConfigurationResponse{
		ID:            config.ID,
		ScenarioType:  config.ScenarioType,
		SystemPrompt:  config.SystemPrompt,
		VoiceSettings: config.VoiceSettings,
		LLMID:         config.LLMID.String,
		AgentID:       config.AgentID.String,
	}
}

// HandleSaveConfiguration handles POST /api/configurations
func (h *Handler) HandleSaveConfiguration(c *gin.Context) {
	ctx := c.Request.Context()

	var req SaveConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	config, err := h.processor.SaveConfiguration(ctx, req.ScenarioType, req.SystemPrompt, req.VoiceSettings)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toConfigurationResponse(config))
}

// HandleGetConfiguration handles GET /api/configurations/:scenario_type
func (h *Handler) HandleGetConfiguration(c *gin.Context) {
	ctx := c.Request.Context()

	config, err := h.processor.GetConfiguration(ctx, c.Param("scenario_type"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toConfigurationResponse(config))
}

// HandleListConfigurations handles GET /api/configurations
func (h *Handler) HandleListConfigurations(c *gin.Context) {
	ctx := c.Request.Context()

	configs, err := h.processor.ListConfigurations(ctx)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	responses := make([]ConfigurationResponse, 0, len(configs))
	for _, config := range configs {
		responses = append(responses, toConfigurationResponse(config))
	}

	c.JSON(http.StatusOK, gin.H{"configurations": responses})
}
