package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/waitlist/internal/domain"
)

func (s *Server) registerAPIRoutes(rateLimiter echo.MiddlewareFunc) {
	api := s.echo.Group("/api", rateLimiter, s.requirePassphrase)
	api.POST("/queue", s.handleEnqueue)
	api.GET("/queue", s.handleListQueue)
	api.POST("/use", s.handleMarkUsed)
	api.GET("/check", s.handleCheck)
	api.POST("/clear", s.handleClear)
	api.POST("/rebuild", s.handleRebuild)
}

func (s *Server) handleEnqueue(c echo.Context) error {
	name := c.FormValue("name")

	result, err := s.app.Enqueue(c.Request().Context(), name)
	if err != nil {
		return serviceError(err, "queue").WithField("name", name)
	}
	return sendJSON(c, result.Message)
}

func (s *Server) handleMarkUsed(c echo.Context) error {
	name := c.FormValue("name")
	actor := c.FormValue("by")

	result, err := s.app.MarkUsed(c.Request().Context(), name, actor)
	if err != nil {
		return serviceError(err, "use").WithField("name", name)
	}
	return sendJSON(c, result.Message)
}

// handleCheck answers with the status message, or null when the name is available.
func (s *Server) handleCheck(c echo.Context) error {
	name := c.FormValue("name")

	status, err := s.app.Check(c.Request().Context(), name)
	if err != nil {
		return serviceError(err, "check").WithField("name", name)
	}
	if status.Available() {
		return sendJSON(c, nil)
	}
	return sendJSON(c, status.Message())
}

func (s *Server) handleClear(c echo.Context) error {
	name := c.FormValue("name")

	msg, err := s.app.Clear(c.Request().Context(), name)
	if err != nil {
		return serviceError(err, "clear").WithField("name", name)
	}
	return sendJSON(c, msg)
}

func (s *Server) handleRebuild(c echo.Context) error {
	result, err := s.app.Rebuild(c.Request().Context())
	if err != nil {
		return serviceError(err, "rebuild")
	}
	return sendJSON(c, fmt.Sprintf("Queue rebuilt: %d rows (was %d).", result.After, result.Before))
}

func (s *Server) handleListQueue(c echo.Context) error {
	entries, err := s.app.ListQueue(c.Request().Context())
	if err != nil {
		return serviceError(err, "list queue")
	}
	if entries == nil {
		entries = []domain.QueueEntry{}
	}
	return sendJSON(c, entries)
}

func sendJSON(c echo.Context, body any) error {
	if err := c.JSON(http.StatusOK, body); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
