// Package httpapi wires the HTTP handler groups onto an echo server.
package httpapi

import (
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/magnolia/internal/httpapi/handlers"
)

// RouteHandler is any handler group that registers its own routes.
type RouteHandler interface {
	RegisterRoutes(g *echo.Group)
}

// RegisterRoutes mounts every handler group under /api.
func RegisterRoutes(e *echo.Echo, matching *handlers.MatchingHandler, candidates *handlers.CandidatesHandler, goldens *handlers.GoldensHandler, sources *handlers.SourcesHandler, dashboard *handlers.DashboardHandler) {
	api := e.Group("/api")

	for _, h := range []RouteHandler{matching, candidates, goldens, sources, dashboard} {
		h.RegisterRoutes(api)
	}
}
