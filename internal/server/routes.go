package server

import (
	"github.com/mythograph/backend/internal/server/middleware"
	"github.com/mythograph/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Build routes
	apiRoutes.POST("/builds", routes.CreateBuildHandler, middleware.RequirePermission("graph.build"))
	apiRoutes.GET("/builds/:id", routes.GetBuildHandler, middleware.RequireAnyPermission("build.view", "graph.build"))

	// Graph routes
	apiRoutes.GET("/graphs", routes.GetGraphsHandler, middleware.RequireAnyPermission("graph.view", "graph.view:all"))
	apiRoutes.GET("/graphs/:id", routes.GetGraphHandler, middleware.RequireAnyPermission("graph.view", "graph.view:all"))
	apiRoutes.GET("/graphs/:id/export", routes.ExportGraphHandler, middleware.RequirePermission("graph.export"))
	apiRoutes.DELETE("/graphs/:id", routes.DeleteGraphHandler, middleware.RequirePermission("graph.delete"))
}
