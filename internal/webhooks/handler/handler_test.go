package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dispatch-server/internal/extraction"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"
	"dispatch-server/internal/webhooks/processor"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	inProgress []string
	completed  []string
}

func (s *stubStore) GetCallLogByProviderCallID(_ context.Context, _ string) (store.CallLog, error) {
	return store.CallLog{}, store.ErrNotFound
}

func (s *stubStore) MarkCallInProgress(_ context.Context, providerCallID string) (bool, error) {
	s.inProgress = append(s.inProgress, providerCallID)
	return true, nil
}

func (s *stubStore) MarkCallCompleted(_ context.Context, providerCallID string) (bool, error) {
	s.completed = append(s.completed, providerCallID)
	return true, nil
}

func (s *stubStore) SaveCallResult(_ context.Context, _, _ string, _ store.JSONB) error {
	return nil
}

func (s *stubStore) SaveCallTranscript(_ context.Context, _, _ string) error {
	return nil
}

type stubExtractor struct{}

func (stubExtractor) ExtractCheckin(_ context.Context, _ string) (extraction.CheckinData, error) {
	return extraction.CheckinData{}, nil
}

func (stubExtractor) ExtractEmergency(_ context.Context, _ string) (extraction.EmergencyData, error) {
	return extraction.EmergencyData{}, nil
}

func newTestRouter(webhookStore *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := observability.NewLogger()
	p := processor.New(webhookStore, stubExtractor{}, nil, logger)
	h := New(p, logger)

	router := gin.New()
	router.POST("/api/webhooks/provider", h.HandleProviderEvent)
	return router
}

func postWebhook(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/provider", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleProviderEvent(t *testing.T) {
	t.Run("acknowledges known events", func(t *testing.T) {
		webhookStore := &stubStore{}
		router := newTestRouter(webhookStore)

		recorder := postWebhook(t, router, `{"event":"call_started","call":{"call_id":"call_1"}}`)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
		require.Len(t, webhookStore.inProgress, 1)
		assert.Equal(t, "call_1", webhookStore.inProgress[0])
	})

	t.Run("acknowledges unknown event kinds", func(t *testing.T) {
		webhookStore := &stubStore{}
		router := newTestRouter(webhookStore)

		recorder := postWebhook(t, router, `{"event":"call_recording_ready","call":{"call_id":"call_1"}}`)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
		assert.Empty(t, webhookStore.inProgress)
		assert.Empty(t, webhookStore.completed)
	})

	t.Run("acknowledges events for unknown calls", func(t *testing.T) {
		router := newTestRouter(&stubStore{})

		recorder := postWebhook(t, router, `{"event":"call_analyzed","call":{"call_id":"ghost","transcript":"Agent: Hi"}}`)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("rejects unparseable payloads", func(t *testing.T) {
		router := newTestRouter(&stubStore{})

		recorder := postWebhook(t, router, "not json at all")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
