//go:build integration
// +build integration

package tests

import (
	"net/http"
	"testing"
)

func TestAPI_InitiateCallValidation(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
	}{
		{
			name:           "missing driver name",
			body:           map[string]interface{}{"driver_phone": "+14155550123", "load_number": "LD-1", "scenario_type": "checkin"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown scenario type",
			body:           map[string]interface{}{"driver_name": "Mike", "driver_phone": "+14155550123", "load_number": "LD-1", "scenario_type": "survey"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing load number",
			body:           map[string]interface{}{"driver_name": "Mike", "driver_phone": "+14155550123", "scenario_type": "checkin"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := makeRequest(t, http.MethodPost, "/api/calls/initiate", tt.body, nil)
			assertStatusCode(t, resp, tt.expectedStatus)
		})
	}
}

func TestAPI_ListCalls(t *testing.T) {
	resp, body := makeRequest(t, http.MethodGet, "/api/calls", nil, nil)
	assertStatusCode(t, resp, http.StatusOK)

	var response map[string]interface{}
	parseJSONResponse(t, body, &response)
	if _, ok := response["calls"]; !ok {
		t.Fatal("Expected 'calls' field in response")
	}
}

func TestAPI_GetCallRejectsBadID(t *testing.T) {
	resp, _ := makeRequest(t, http.MethodGet, "/api/calls/not-a-uuid", nil, nil)
	assertStatusCode(t, resp, http.StatusBadRequest)
}
