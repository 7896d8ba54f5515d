//go:build integration
// +build integration

package tests

import (
	"net/http"
	"testing"
)

func TestAPI_WebhookAlwaysAcknowledges(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "unknown event kind",
			body: map[string]interface{}{"event": "call_recording_ready", "call": map[string]interface{}{"call_id": "call_test"}},
		},
		{
			name: "event for unknown call",
			body: map[string]interface{}{"event": "call_started", "call": map[string]interface{}{"call_id": "never_created"}},
		},
		{
			name: "analyzed event for unknown call",
			body: map[string]interface{}{"event": "call_analyzed", "call": map[string]interface{}{"call_id": "never_created", "transcript": "Agent: Hi"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := makeRequest(t, http.MethodPost, "/api/webhooks/provider", tt.body, nil)
			assertStatusCode(t, resp, http.StatusOK)

			var response map[string]interface{}
			parseJSONResponse(t, body, &response)
			if response["status"] != "ok" {
				t.Errorf("Expected status 'ok', got %v", response["status"])
			}
		})
	}
}
