package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mythograph/backend/internal/server/middleware"
	"github.com/mythograph/backend/pkg/export"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/store"
	graphstorage "github.com/mythograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// ExportGraphHandler renders a stored graph as a downloadable JSON document.
func ExportGraphHandler(c echo.Context) error {
	type exportGraphParams struct {
		ID string `param:"id" validate:"required"`
	}

	type exportGraphResponse struct {
		Message string `json:"message"`
	}

	params := new(exportGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, exportGraphResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, exportGraphResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	dbStore := graphstorage.NewGraphDBStoreWithConnection(conn)

	g, err := dbStore.GetGraph(ctx, params.ID)
	if errors.Is(err, store.ErrGraphNotFound) {
		return c.JSON(http.StatusNotFound, exportGraphResponse{
			Message: "Graph not found",
		})
	}
	if err != nil {
		logger.Error("Failed to load graph for export", "graph", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, exportGraphResponse{
			Message: "Internal server error",
		})
	}

	exporter := export.NewExporter(export.NewExporterParams{})
	res, err := exporter.ExportJSON(ctx, params.ID, g)
	if err != nil {
		logger.Error("Failed to render export", "graph", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, exportGraphResponse{
			Message: "Internal server error",
		})
	}

	filename := fmt.Sprintf("graph-%s-%s.json", params.ID, res.ID)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, res.Payload)
}
