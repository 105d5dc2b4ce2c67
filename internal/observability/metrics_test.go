package observability

import (
	"strings"
	"testing"
	"time"

	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestMetricsDisabledByDefault(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "")
	if m := Init(testLogger(t)); m != nil {
		t.Fatalf("expected nil metrics when disabled, got %+v", m)
	}
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/properties", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.IngestRunInc()
	m.ObserveIngestRow("inserted")
	if err := m.WritePrometheus(&strings.Builder{}); err != nil {
		t.Fatalf("nil write: %v", err)
	}
}

func TestMetricsExposition(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "true")
	m := Init(testLogger(t))
	if m == nil {
		t.Fatal("expected metrics instance when enabled")
	}

	m.ObserveAPI("POST", "/api/upload/data", "200", 50*time.Millisecond)
	m.ObserveAPI("POST", "/api/upload/data", "500", 10*time.Millisecond)
	m.IngestRunInc()
	m.ObserveIngestRow("inserted")
	m.ObserveIngestRow("inserted")
	m.ObserveIngestRow("dropped")

	var b strings.Builder
	if err := m.WritePrometheus(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		`red_api_requests_total{method="POST",route="/api/upload/data",status="200"}`,
		`red_api_requests_total{method="POST",route="/api/upload/data",status="500"}`,
		"# TYPE red_api_request_duration_seconds histogram",
		`red_ingest_rows_total{status="inserted"} 2.000000`,
		`red_ingest_rows_total{status="dropped"} 1.000000`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q in:\n%s", want, out)
		}
	}

	if m.apiReqError.Value() != 1 {
		t.Fatalf("expected one 5xx counted, got %f", m.apiReqError.Value())
	}
	if m.ingestRuns.Value() != 1 {
		t.Fatalf("expected one run counted, got %f", m.ingestRuns.Value())
	}
}
