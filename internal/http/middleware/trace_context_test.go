package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sagar803/real-estate-dashboard/internal/platform/ctxutil"
)

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AttachTraceContext())

	var td *ctxutil.TraceData
	r.GET("/ping", func(c *gin.Context) {
		td = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if td == nil || td.TraceID == "" || td.RequestID == "" {
		t.Fatalf("trace data not attached: %+v", td)
	}
	if got := rec.Header().Get("X-Trace-Id"); got != td.TraceID {
		t.Fatalf("trace id header mismatch: got=%q want=%q", got, td.TraceID)
	}
	if got := rec.Header().Get("X-Request-Id"); got != td.RequestID {
		t.Fatalf("request id header mismatch: got=%q want=%q", got, td.RequestID)
	}
}

func TestAttachTraceContextHonorsCallerHeaders(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-Id", "trace-123")
	req.Header.Set("X-Request-Id", "req-456")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Trace-Id"); got != "trace-123" {
		t.Fatalf("caller trace id not echoed: got=%q", got)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "req-456" {
		t.Fatalf("caller request id not echoed: got=%q", got)
	}
}
