package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dispatch-server/internal/observability"
)

const defaultBaseURL = "https://api.retellai.com"

// Client talks to the Retell AI HTTP API for agent provisioning and call
// creation. Retell has no official Go SDK, so this is a plain JSON client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *observability.Logger
}

func NewClient(apiKey, baseURL string, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("retell API key is required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// Tool describes a conversational tool attached to a provider LLM.
type Tool struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EndCallTool lets the agent hang up once it has everything it needs.
var EndCallTool = Tool{
	Type: "end_call",
	Name: "end_call",
	Description: "End the call when: " +
		"1) All required information has been collected and goodbye has been said, " +
		"2) After 3 attempts to get information from an uncooperative driver who only gives single-word responses, " +
		"3) Emergency information has been gathered and escalation statement has been made. " +
		"Always say a brief farewell before ending.",
}

// WebCall is the provider's response to a browser-based call creation.
type WebCall struct {
	CallID      string `json:"call_id"`
	AccessToken string `json:"access_token"`
}

// PhoneCall is the provider's response to a telephony call creation.
type PhoneCall struct {
	CallID string `json:"call_id"`
}

type createWebCallRequest struct {
	AgentID          string            `json:"agent_id"`
	DynamicVariables map[string]string `json:"retell_llm_dynamic_variables,omitempty"`
}

// CreateWebCall creates a browser-based call. No phone number is involved;
// the returned access token is handed to the web client.
func (c *Client) CreateWebCall(ctx context.Context, agentID string, dynamicVariables map[string]string) (WebCall, error) {
	var call WebCall
	err := c.post(ctx, "/v2/create-web-call", createWebCallRequest{
		AgentID:          agentID,
		DynamicVariables: dynamicVariables,
	}, &call)
	if err != nil {
		c.logger.Error(ctx, "failed to create web call", err)
		return WebCall{}, fmt.Errorf("failed to create web call: %w", err)
	}
	return call, nil
}

type createPhoneCallRequest struct {
	FromNumber       string            `json:"from_number"`
	ToNumber         string            `json:"to_number"`
	OverrideAgentID  string            `json:"override_agent_id"`
	DynamicVariables map[string]string `json:"retell_llm_dynamic_variables,omitempty"`
}

// CreatePhoneCall initiates an outbound telephony call.
func (c *Client) CreatePhoneCall(ctx context.Context, agentID, fromNumber, toNumber string, dynamicVariables map[string]string) (PhoneCall, error) {
	var call PhoneCall
	err := c.post(ctx, "/v2/create-phone-call", createPhoneCallRequest{
		FromNumber:       fromNumber,
		ToNumber:         toNumber,
		OverrideAgentID:  agentID,
		DynamicVariables: dynamicVariables,
	}, &call)
	if err != nil {
		c.logger.Error(ctx, "failed to create phone call", err)
		return PhoneCall{}, fmt.Errorf("failed to create phone call: %w", err)
	}
	return call, nil
}

type llmRequest struct {
	GeneralPrompt string `json:"general_prompt,omitempty"`
	Model         string `json:"model,omitempty"`
	GeneralTools  []Tool `json:"general_tools,omitempty"`
}

type llmResponse struct {
	LLMID string `json:"llm_id"`
}

const llmModel = "gpt-4o"

// CreateLLM provisions a provider LLM with the given prompt and tools and
// returns its id.
func (c *Client) CreateLLM(ctx context.Context, generalPrompt string, generalTools []Tool) (string, error) {
	var resp llmResponse
	err := c.post(ctx, "/create-retell-llm", llmRequest{
		GeneralPrompt: generalPrompt,
		Model:         llmModel,
		GeneralTools:  generalTools,
	}, &resp)
	if err != nil {
		c.logger.Error(ctx, "failed to create LLM", err)
		return "", fmt.Errorf("failed to create LLM: %w", err)
	}
	return resp.LLMID, nil
}

// UpdateLLM updates an existing provider LLM's prompt and tools.
func (c *Client) UpdateLLM(ctx context.Context, llmID, generalPrompt string, generalTools []Tool) error {
	err := c.do(ctx, http.MethodPatch, "/update-retell-llm/"+llmID, llmRequest{
		GeneralPrompt: generalPrompt,
		GeneralTools:  generalTools,
	}, nil)
	if err != nil {
		c.logger.Error(ctx, "failed to update LLM", err)
		return fmt.Errorf("failed to update LLM: %w", err)
	}
	return nil
}

type responseEngine struct {
	Type  string `json:"type"`
	LLMID string `json:"llm_id"`
}

type createAgentRequest struct {
	AgentName         string         `json:"agent_name"`
	VoiceID           string         `json:"voice_id"`
	ResponseEngine    responseEngine `json:"response_engine"`
	EnableBackchannel bool           `json:"enable_backchannel"`
}

type createAgentResponse struct {
	AgentID string `json:"agent_id"`
}

// CreateAgent provisions a conversational agent linked to an existing LLM.
func (c *Client) CreateAgent(ctx context.Context, agentName, llmID, voiceID string) (string, error) {
	var resp createAgentResponse
	err := c.post(ctx, "/create-agent", createAgentRequest{
		AgentName:         agentName,
		VoiceID:           voiceID,
		ResponseEngine:    responseEngine{Type: "retell-llm", LLMID: llmID},
		EnableBackchannel: true,
	}, &resp)
	if err != nil {
		c.logger.Error(ctx, "failed to create agent", err)
		return "", fmt.Errorf("failed to create agent: %w", err)
	}
	return resp.AgentID, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("retell request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("retell API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
