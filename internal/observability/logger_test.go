package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestWithFields(t *testing.T) {
	ctx := context.Background()
	ctx = WithFields(ctx, Field{"call_id", "abc"})
	ctx = WithFields(ctx, Field{"scenario_type", "checkin"})

	fields := getObservabilityFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "call_id" || fields[1].Key != "scenario_type" {
		t.Errorf("unexpected field keys: %+v", fields)
	}
}

func TestMergeFields_DeduplicatesKeys(t *testing.T) {
	ctx := WithFields(context.Background(), Field{"request_id", "req-1"})

	merged := mergeFields(ctx, []MetricField{
		{"request_id", "req-2"},
		{"status", 200},
	})

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged fields, got %d", len(merged))
	}
}

func TestMiddleware_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := NewLogger()

	router := gin.New()
	router.Use(Middleware(logger))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header to be set")
	}
}

func TestMiddleware_PreservesIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := NewLogger()

	router := gin.New()
	router.Use(Middleware(logger))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-custom")
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-custom" {
		t.Errorf("expected request id to be preserved, got %q", got)
	}
}
