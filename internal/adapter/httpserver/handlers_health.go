package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/waitlist/internal/domain"
	"github.com/pscheid92/waitlist/internal/platform/version"
)

const (
	startupProbeTimeout   = 2 * time.Second
	readinessProbeTimeout = 5 * time.Second
)

// HealthCheck is a named dependency check. Readiness runs every check;
// startup runs only those with Startup set.
type HealthCheck struct {
	Name    string
	Check   func(ctx context.Context) error
	Startup bool
}

type checkResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Type   string `json:"type,omitempty"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/startup", s.handleStartup)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleStartup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), startupProbeTimeout)
	defer cancel()

	var checks []HealthCheck
	for _, hc := range s.healthChecks {
		if hc.Startup {
			checks = append(checks, hc)
		}
	}
	return s.runHealthChecks(c, ctx, checks)
}

func (s *Server) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
	defer cancel()

	return s.runHealthChecks(c, ctx, s.healthChecks)
}

// runHealthChecks runs every check and reports each one. The first failing
// check is named in failed_check.
func (s *Server) runHealthChecks(c echo.Context, ctx context.Context, checks []HealthCheck) error {
	results := make(map[string]checkResult, len(checks))
	failed := ""

	for _, hc := range checks {
		err := hc.Check(ctx)
		if err == nil {
			results[hc.Name] = checkResult{Status: "ok"}
			continue
		}

		results[hc.Name] = checkResult{Status: "failed", Error: err.Error(), Type: failureType(err)}
		if failed == "" {
			failed = hc.Name
		}
	}

	status, code := "ready", http.StatusOK
	response := map[string]any{"checks": results}
	if failed != "" {
		status, code = "unhealthy", http.StatusServiceUnavailable
		response["failed_check"] = failed
	}
	response["status"] = status

	if err := c.JSON(code, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// failureType separates sheet store outages from everything else.
func failureType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrSheetStore):
		return "sheet_store"
	default:
		return "internal"
	}
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
