package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsLookupCollectors(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()

	metrics.IncLookupAttempt("TCPA", "error")
	metrics.IncLookupAttempt("tcpa", "error")
	metrics.IncLookupAttempt("person", "dnc")
	metrics.IncLookupResult("dnc")
	metrics.IncBatch("completed")
	metrics.ObserveUpstreamRequest("tcpa", "ok", 120*time.Millisecond)

	if got := testutil.ToFloat64(metrics.lookupAttemptsTotal.WithLabelValues("tcpa", "error")); got != 2 {
		t.Fatalf("lookup_attempts_total{tcpa,error} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.lookupAttemptsTotal.WithLabelValues("person", "dnc")); got != 1 {
		t.Fatalf("lookup_attempts_total{person,dnc} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.lookupResultsTotal.WithLabelValues("dnc")); got != 1 {
		t.Fatalf("lookup_results_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.batchesTotal.WithLabelValues("completed")); got != 1 {
		t.Fatalf("batches_total = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(metrics.upstreamRequestDuration); got != 1 {
		t.Fatalf("upstream histogram series = %d, want 1", got)
	}
}

func TestMetricsWriteTextfile(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	metrics.IncLookupResult("clean")

	path := filepath.Join(t.TempDir(), "dnc.prom")
	if err := metrics.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `dnc_checker_lookup_results_total{status="clean"} 1`) {
		t.Fatalf("textfile = %s, want lookup_results_total sample", data)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var metrics *Metrics
	metrics.IncLookupAttempt("tcpa", "error")
	metrics.IncLookupResult("clean")
	metrics.IncBatch("canceled")
	metrics.ObserveUpstreamRequest("tcpa", "ok", time.Second)
}

func TestMetricsHTTPMiddlewareRecordsRequest(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if _, err := app.Test(httptest.NewRequest("GET", "/boom", nil)); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/health", "200")); got != 1 {
		t.Fatalf("http_requests_total{/health} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/boom", "500")); got != 1 {
		t.Fatalf("http_requests_total{/boom} = %v, want 1", got)
	}
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	metrics.IncLookupResult("clean")

	app := fiber.New()
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `dnc_checker_lookup_results_total{status="clean"} 1`) {
		t.Fatalf("metrics output missing lookup_results_total:\n%s", body)
	}
}
