package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/waitlist/internal/app"
)

func (s *Server) registerDashboardRoutes() {
	s.echo.GET("/", s.handleDashboard)
}

func (s *Server) handleDashboard(c echo.Context) error {
	used, err := s.app.UsedHistory(c.Request().Context())
	if err != nil {
		return serviceError(err, "load used history")
	}

	groups := app.GroupUsedByDate(used, s.app.Location())

	data := map[string]any{
		"Groups": groups,
		"Total":  len(used),
	}
	return s.renderTemplate(c, "dashboard.html", data)
}
