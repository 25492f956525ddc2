package routes

import (
	"errors"
	"net/http"

	"github.com/mythograph/backend/internal/server/middleware"
	"github.com/mythograph/backend/pkg/common"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/store"
	graphstorage "github.com/mythograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetGraphsHandler lists all stored graphs without their payload.
func GetGraphsHandler(c echo.Context) error {
	type getGraphsResponse struct {
		Message string              `json:"message"`
		Graphs  []store.GraphRecord `json:"graphs"`
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	dbStore := graphstorage.NewGraphDBStoreWithConnection(conn)

	records, err := dbStore.ListGraphs(ctx)
	if err != nil {
		logger.Error("Failed to list graphs", "err", err)
		return c.JSON(http.StatusInternalServerError, getGraphsResponse{
			Message: "Internal server error",
			Graphs:  []store.GraphRecord{},
		})
	}

	return c.JSON(http.StatusOK, getGraphsResponse{
		Message: "OK",
		Graphs:  records,
	})
}

// GetGraphHandler returns a stored graph with its full node and edge payload.
func GetGraphHandler(c echo.Context) error {
	type getGraphParams struct {
		ID string `param:"id" validate:"required"`
	}

	type getGraphResponse struct {
		Message string        `json:"message"`
		Graph   *common.Graph `json:"graph,omitempty"`
	}

	params := new(getGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getGraphResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getGraphResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	dbStore := graphstorage.NewGraphDBStoreWithConnection(conn)

	g, err := dbStore.GetGraph(ctx, params.ID)
	if errors.Is(err, store.ErrGraphNotFound) {
		return c.JSON(http.StatusNotFound, getGraphResponse{
			Message: "Graph not found",
		})
	}
	if err != nil {
		logger.Error("Failed to load graph", "graph", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, getGraphResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getGraphResponse{
		Message: "OK",
		Graph:   &g,
	})
}
