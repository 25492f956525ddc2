package routes

import (
	"errors"
	"net/http"

	"github.com/mythograph/backend/internal/server/middleware"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/store"
	graphstorage "github.com/mythograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetBuildHandler returns the state of a queued or finished build job.
func GetBuildHandler(c echo.Context) error {
	type getBuildParams struct {
		ID string `param:"id" validate:"required"`
	}

	type getBuildResponse struct {
		Message string             `json:"message"`
		Build   *store.BuildRecord `json:"build,omitempty"`
	}

	params := new(getBuildParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getBuildResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getBuildResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	dbStore := graphstorage.NewGraphDBStoreWithConnection(conn)

	build, err := dbStore.GetBuild(ctx, params.ID)
	if errors.Is(err, store.ErrBuildNotFound) {
		return c.JSON(http.StatusNotFound, getBuildResponse{
			Message: "Build not found",
		})
	}
	if err != nil {
		logger.Error("Failed to load build record", "err", err)
		return c.JSON(http.StatusInternalServerError, getBuildResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getBuildResponse{
		Message: "OK",
		Build:   build,
	})
}
