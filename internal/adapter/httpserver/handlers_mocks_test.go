package httpserver

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/waitlist/internal/app"
	"github.com/pscheid92/waitlist/internal/domain"
	"github.com/pscheid92/waitlist/internal/platform/config"
)

const testPassphrase = "open-sesame"

// --- Mock implementations ---

type mockAppService struct {
	enqueueFn     func(ctx context.Context, name string) (app.Result, error)
	markUsedFn    func(ctx context.Context, name, actor string) (app.Result, error)
	checkFn       func(ctx context.Context, name string) (domain.Status, error)
	clearFn       func(ctx context.Context, name string) (string, error)
	rebuildFn     func(ctx context.Context) (app.RebuildResult, error)
	listQueueFn   func(ctx context.Context) ([]domain.QueueEntry, error)
	usedHistoryFn func(ctx context.Context) ([]domain.UsedEntry, error)
}

func (m *mockAppService) Enqueue(ctx context.Context, name string) (app.Result, error) {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, name)
	}
	return app.Result{}, errors.New("not implemented")
}

func (m *mockAppService) MarkUsed(ctx context.Context, name, actor string) (app.Result, error) {
	if m.markUsedFn != nil {
		return m.markUsedFn(ctx, name, actor)
	}
	return app.Result{}, errors.New("not implemented")
}

func (m *mockAppService) Check(ctx context.Context, name string) (domain.Status, error) {
	if m.checkFn != nil {
		return m.checkFn(ctx, name)
	}
	return domain.Status{}, errors.New("not implemented")
}

func (m *mockAppService) Clear(ctx context.Context, name string) (string, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx, name)
	}
	return "", errors.New("not implemented")
}

func (m *mockAppService) Rebuild(ctx context.Context) (app.RebuildResult, error) {
	if m.rebuildFn != nil {
		return m.rebuildFn(ctx)
	}
	return app.RebuildResult{}, errors.New("not implemented")
}

func (m *mockAppService) ListQueue(ctx context.Context) ([]domain.QueueEntry, error) {
	if m.listQueueFn != nil {
		return m.listQueueFn(ctx)
	}
	return nil, nil
}

func (m *mockAppService) UsedHistory(ctx context.Context) ([]domain.UsedEntry, error) {
	if m.usedHistoryFn != nil {
		return m.usedHistoryFn(ctx)
	}
	return nil, nil
}

func (m *mockAppService) Location() *time.Location {
	return time.UTC
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	tmpl := template.Must(template.New("dashboard.html").Funcs(templateFuncs).Parse(
		`{{.Total}} {{plural .Total "name" "names"}}{{range .Groups}}|{{.Label}}:{{range .Entries}}{{.Name}},{{end}}{{end}}`))

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			Passphrase:   testPassphrase,
			APIRateLimit: 100,
			APIRateBurst: 100,
		},
		app:       app,
		templates: tmpl,
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withRegistry(reg *prometheus.Registry) func(*Server) {
	return func(s *Server) {
		s.registry = reg
	}
}

func withRateLimit(rate float64, burst int) func(*Server) {
	return func(s *Server) {
		s.config.APIRateLimit = rate
		s.config.APIRateBurst = burst
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}

// serve runs a request through the full middleware stack.
func serve(srv *Server, method, path string, params url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if method == http.MethodGet {
		req = httptest.NewRequest(method, path+"?"+params.Encode(), nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(params.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func authed(kv ...string) url.Values {
	v := url.Values{"passphrase": {testPassphrase}}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}
