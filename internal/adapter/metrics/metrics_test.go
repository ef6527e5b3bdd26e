package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pscheid92/waitlist/internal/adapter/memory"
	"github.com/pscheid92/waitlist/internal/domain"
	"github.com/pscheid92/waitlist/internal/platform/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetMetrics_CountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSheetMetrics(reg)

	mem := memory.NewStore()
	store, err := m.Connector(mem).Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.AppendRow(context.Background(), domain.SheetQueue, domain.Row{"Alice", "t"}))
	_, err = store.ReadRows(context.Background(), domain.SheetQueue)
	require.NoError(t, err)

	mem.Fail(memory.OpReadColumn, errors.New("quota"))
	_, err = store.ReadColumn(context.Background(), domain.SheetQueue, 0)
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Connects.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Operations.WithLabelValues("Queue", "append_row", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Operations.WithLabelValues("Queue", "read_rows", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Operations.WithLabelValues("Queue", "read_column", "error")), 0)
	assert.Equal(t, 3, testutil.CollectAndCount(m.OperationDuration))
}

func TestSheetMetrics_ConnectFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSheetMetrics(reg)

	failing := domain.SheetConnectorFunc(func(context.Context) (domain.SheetStore, error) {
		return nil, domain.ErrSheetStore
	})

	_, err := m.Connector(failing).Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrSheetStore)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Connects.WithLabelValues("error")), 0)
}

func TestWaitlistMetrics(t *testing.T) {
	m := NewWaitlistMetrics(prometheus.NewRegistry())

	m.RecordOutcome("queue", "queued")
	m.RecordOutcome("queue", "queued")
	m.RecordOutcome("queue", "already_used")

	assert.InDelta(t, 2, testutil.ToFloat64(m.Outcomes.WithLabelValues("queue", "queued")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Outcomes.WithLabelValues("queue", "already_used")), 0)
}

func TestBreakerMetrics(t *testing.T) {
	m := NewBreakerMetrics(prometheus.NewRegistry())

	m.RecordState("open", 2)
	assert.InDelta(t, 2, testutil.ToFloat64(m.State), 0)
	m.RecordState("half-open", 1)
	m.RecordState("closed", 0)

	assert.InDelta(t, 0, testutil.ToFloat64(m.State), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Transitions.WithLabelValues("open")), 0)
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/check", func(c echo.Context) error { return c.JSON(http.StatusOK, nil) })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/api/check", "/api/check", "/health/live"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/check", "200")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal), "health probes are not recorded")
	assert.InDelta(t, 0, testutil.ToFloat64(m.InFlightGauge), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestHTTPMetrics_APIRejections(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())

	e := echo.New()
	e.Use(m.Middleware())
	e.POST("/api/queue", func(c echo.Context) error {
		if c.QueryParam("passphrase") == "" {
			return c.JSON(http.StatusUnauthorized, nil)
		}
		return c.JSON(http.StatusTooManyRequests, nil)
	})
	e.POST("/api/use", func(c echo.Context) error { return echo.NewHTTPError(http.StatusUnauthorized) })
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusUnauthorized) })

	for _, target := range []string{"/api/queue", "/api/queue?passphrase=x", "/api/queue?passphrase=x", "/api/use"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, target, nil))
	}
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.InDelta(t, 1, testutil.ToFloat64(m.APIRejections.WithLabelValues("/api/queue", "unauthorized")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.APIRejections.WithLabelValues("/api/queue", "rate_limited")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.APIRejections.WithLabelValues("/api/use", "unauthorized")), 0)
	assert.Equal(t, 3, testutil.CollectAndCount(m.APIRejections), "only /api routes count as rejections")
	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/api/use", "401")), 0)
}

func TestObserved(t *testing.T) {
	for _, route := range []string{"/metrics", "/version", "/health/ready"} {
		_, ok := observed(route)
		assert.False(t, ok, route)
	}
	route, ok := observed("")
	assert.True(t, ok)
	assert.Equal(t, "unmatched", route)
}

func TestNewRegistry_ServesRuntimeMetrics(t *testing.T) {
	reg := NewRegistry("memory")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Contains(t, rec.Body.String(), `sheet_backend="memory"`)
	assert.Contains(t, rec.Body.String(), "promhttp_metric_handler_errors_total")
}

func TestBuildInfo(t *testing.T) {
	c := newBuildInfo(version.Info{Version: "1.2.3", Commit: "abc", GoVersion: "go1.24"}, "pebble")

	expected := `
# HELP waitlist_build_info Build and backend information; always 1
# TYPE waitlist_build_info gauge
waitlist_build_info{commit="abc",go_version="go1.24",sheet_backend="pebble",version="1.2.3"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}
