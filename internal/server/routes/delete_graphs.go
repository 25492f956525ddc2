package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mythograph/backend/internal/queue"
	"github.com/mythograph/backend/internal/server/middleware"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/store"
	graphstorage "github.com/mythograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DeleteGraphHandler queues removal of a stored graph and its exports.
func DeleteGraphHandler(c echo.Context) error {
	type deleteGraphParams struct {
		ID string `param:"id" validate:"required"`
	}

	type deleteGraphResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteGraphResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteGraphResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	dbStore := graphstorage.NewGraphDBStoreWithConnection(conn)

	if _, err := dbStore.GetGraphRecord(ctx, params.ID); err != nil {
		if errors.Is(err, store.ErrGraphNotFound) {
			return c.JSON(http.StatusNotFound, deleteGraphResponse{
				Message: "Graph not found",
			})
		}
		logger.Error("Failed to load graph record", "graph", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteGraphResponse{
			Message: "Internal server error",
		})
	}

	queueData := queue.QueueDeleteMsg{GraphID: params.ID}
	msgBytes, err := json.Marshal(queueData)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, deleteGraphResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.DeleteQueue, msgBytes); err != nil {
		logger.Error("Failed to publish to delete_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteGraphResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, deleteGraphResponse{
		Message: "Graph deletion queued",
	})
}
