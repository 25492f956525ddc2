package routes

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/mythograph/backend/internal/queue"
	"github.com/mythograph/backend/internal/server/middleware"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/store"
	graphstorage "github.com/mythograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateBuildHandler queues a new graph build job.
func CreateBuildHandler(c echo.Context) error {
	type createBuildBody struct {
		Name       string   `json:"name" validate:"required"`
		Categories []string `json:"categories"`
		Limit      int      `json:"limit"`
	}

	type createBuildResponse struct {
		Message string `json:"message"`
		BuildID string `json:"build_id,omitempty"`
		GraphID string `json:"graph_id,omitempty"`
	}

	data := new(createBuildBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createBuildResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createBuildResponse{
			Message: "Invalid request body",
		})
	}

	known := queue.CategoryNames()
	for _, category := range data.Categories {
		if !slices.Contains(known, category) {
			return c.JSON(http.StatusBadRequest, createBuildResponse{
				Message: "Unknown category: " + category,
			})
		}
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, createBuildResponse{
			Message: "Unauthorized",
		})
	}

	buildID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createBuildResponse{
			Message: "Internal server error",
		})
	}
	graphID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createBuildResponse{
			Message: "Internal server error",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	dbStore := graphstorage.NewGraphDBStoreWithConnection(conn)

	err = dbStore.CreateBuild(ctx, store.BuildRecord{
		ID:          buildID,
		GraphID:     graphID,
		RequestedBy: strconv.FormatInt(user.UserID, 10),
	})
	if err != nil {
		logger.Error("Failed to create build record", "err", err)
		return c.JSON(http.StatusInternalServerError, createBuildResponse{
			Message: "Internal server error",
		})
	}

	queueData := queue.QueueBuildMsg{
		BuildID:    buildID,
		GraphID:    graphID,
		Name:       data.Name,
		Categories: data.Categories,
		Limit:      data.Limit,
	}
	msgBytes, err := json.Marshal(queueData)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createBuildResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.BuildQueue, msgBytes); err != nil {
		logger.Error("Failed to publish to build_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, createBuildResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, createBuildResponse{
		Message: "Build queued",
		BuildID: buildID,
		GraphID: graphID,
	})
}
