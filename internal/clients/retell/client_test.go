package retell

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatch-server/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", server.URL, observability.NewLogger())
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("", "", observability.NewLogger())
	assert.Error(t, err)
}

func TestCreateWebCall(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/create-web-call", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "agent_1", req["agent_id"])

		vars, ok := req["retell_llm_dynamic_variables"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Jane Doe", vars["driver_name"])

		json.NewEncoder(w).Encode(map[string]string{
			"call_id":      "call_abc",
			"access_token": "tok_xyz",
		})
	})

	call, err := client.CreateWebCall(context.Background(), "agent_1", map[string]string{
		"driver_name": "Jane Doe",
		"load_number": "L-900",
	})
	require.NoError(t, err)
	assert.Equal(t, "call_abc", call.CallID)
	assert.Equal(t, "tok_xyz", call.AccessToken)
}

func TestCreatePhoneCall(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/create-phone-call", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+14155550100", req["from_number"])
		assert.Equal(t, "+14155550123", req["to_number"])
		assert.Equal(t, "agent_1", req["override_agent_id"])

		json.NewEncoder(w).Encode(map[string]string{"call_id": "call_def"})
	})

	call, err := client.CreatePhoneCall(context.Background(), "agent_1", "+14155550100", "+14155550123", nil)
	require.NoError(t, err)
	assert.Equal(t, "call_def", call.CallID)
}

func TestCreateLLM(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-retell-llm", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req["model"])

		tools, ok := req["general_tools"].([]interface{})
		require.True(t, ok)
		require.Len(t, tools, 1)

		json.NewEncoder(w).Encode(map[string]string{"llm_id": "llm_123"})
	})

	llmID, err := client.CreateLLM(context.Background(), "You are a dispatch agent.", []Tool{EndCallTool})
	require.NoError(t, err)
	assert.Equal(t, "llm_123", llmID)
}

func TestUpdateLLM(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/update-retell-llm/llm_123", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdateLLM(context.Background(), "llm_123", "Updated prompt", []Tool{EndCallTool})
	assert.NoError(t, err)
}

func TestCreateAgent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-agent", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Dispatch Checkin Agent", req["agent_name"])

		engine, ok := req["response_engine"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "retell-llm", engine["type"])
		assert.Equal(t, "llm_123", engine["llm_id"])

		json.NewEncoder(w).Encode(map[string]string{"agent_id": "agent_456"})
	})

	agentID, err := client.CreateAgent(context.Background(), "Dispatch Checkin Agent", "llm_123", "11labs-Adrian")
	require.NoError(t, err)
	assert.Equal(t, "agent_456", agentID)
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	})

	_, err := client.CreateWebCall(context.Background(), "agent_1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
