package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dispatch-server/internal/calls/processor"
	"dispatch-server/internal/clients/retell"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct{}

func (stubStore) CreateCallLog(_ context.Context, params store.CreateCallLogParams) (store.CallLog, error) {
	return store.CallLog{
		ID:           uuid.New(),
		DriverName:   params.DriverName,
		DriverPhone:  params.DriverPhone,
		LoadNumber:   params.LoadNumber,
		ScenarioType: params.ScenarioType,
		CallStatus:   store.CallStatusInitiated,
	}, nil
}

func (stubStore) GetCallLogByID(_ context.Context, _ uuid.UUID) (store.CallLog, error) {
	return store.CallLog{}, store.ErrNotFound
}

func (stubStore) SetProviderCallID(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

func (stubStore) ListCallLogs(_ context.Context, _ string, _ bool) ([]store.CallLog, error) {
	return nil, nil
}

func (stubStore) MarkCallFailed(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (stubStore) GetAgentConfigurationByScenario(_ context.Context, scenarioType string) (store.AgentConfiguration, error) {
	return store.AgentConfiguration{
		ScenarioType: scenarioType,
		AgentID:      sql.NullString{String: "agent_1", Valid: true},
	}, nil
}

type stubProvider struct{}

func (stubProvider) CreateWebCall(_ context.Context, _ string, _ map[string]string) (retell.WebCall, error) {
	return retell.WebCall{CallID: "call_web_1", AccessToken: "token_abc"}, nil
}

func (stubProvider) CreatePhoneCall(_ context.Context, _, _, _ string, _ map[string]string) (retell.PhoneCall, error) {
	return retell.PhoneCall{CallID: "call_phone_1"}, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := observability.NewLogger()
	p := processor.New(stubStore{}, stubProvider{}, "+15550001111", logger)
	h := New(p, logger)

	router := gin.New()
	router.POST("/api/calls/initiate", h.HandleInitiatePhoneCall)
	router.POST("/api/calls/initiate-web", h.HandleInitiateWebCall)
	router.GET("/api/calls/:call_id", h.HandleGetCall)
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleInitiatePhoneCall(t *testing.T) {
	router := newTestRouter()

	t.Run("starts a call for a valid request", func(t *testing.T) {
		recorder := post(router, "/api/calls/initiate",
			`{"driver_name":"Mike Chen","driver_phone":"+14155550123","load_number":"LD-4512","scenario_type":"checkin"}`)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "call_phone_1")
		assert.Contains(t, recorder.Body.String(), "initiated")
	})

	t.Run("rejects a missing driver name", func(t *testing.T) {
		recorder := post(router, "/api/calls/initiate",
			`{"driver_phone":"+14155550123","load_number":"LD-4512","scenario_type":"checkin"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects an unknown scenario type", func(t *testing.T) {
		recorder := post(router, "/api/calls/initiate",
			`{"driver_name":"Mike Chen","driver_phone":"+14155550123","load_number":"LD-4512","scenario_type":"survey"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		recorder := post(router, "/api/calls/initiate", "{")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestHandleInitiateWebCall(t *testing.T) {
	router := newTestRouter()

	t.Run("returns an access token", func(t *testing.T) {
		recorder := post(router, "/api/calls/initiate-web",
			`{"driver_name":"Mike Chen","load_number":"LD-4512","scenario_type":"emergency"}`)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "token_abc")
	})

	t.Run("rejects a missing load number", func(t *testing.T) {
		recorder := post(router, "/api/calls/initiate-web",
			`{"driver_name":"Mike Chen","scenario_type":"checkin"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestHandleGetCall(t *testing.T) {
	router := newTestRouter()

	t.Run("rejects a malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/calls/not-a-uuid", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("returns 404 for an unknown call", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/calls/"+uuid.NewString(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
