package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mythograph/backend/internal/storage"
	"github.com/mythograph/backend/pkg/leaselock"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/store"
	graphstorage "github.com/mythograph/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProcessDeleteMessage removes a stored graph and the exports kept for it in
// object storage. Deleting a graph that is already gone is not an error.
func ProcessDeleteMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(QueueDeleteMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}
	if data.GraphID == "" {
		return fmt.Errorf("delete message missing graph_id")
	}

	dbStore := graphstorage.NewGraphDBStoreWithConnection(conn)

	leases := leaselock.New(conn)
	err := leases.WithLease(ctx, "graph:"+data.GraphID, leaselock.Options{
		TTL:         2 * time.Minute,
		TokenPrefix: "delete_",
	}, func(ctx context.Context) error {
		err := dbStore.DeleteGraph(ctx, data.GraphID)
		if errors.Is(err, store.ErrGraphNotFound) {
			logger.Warn("[Queue] Graph already deleted", "graph", data.GraphID)
		} else if err != nil {
			return fmt.Errorf("failed to delete graph: %w", err)
		}

		if s3Client != nil {
			prefix := fmt.Sprintf("graphs/%s/", data.GraphID)
			if err := storage.DeleteFolder(ctx, s3Client, prefix); err != nil {
				return fmt.Errorf("failed to delete graph exports: %w", err)
			}
		}
		return nil
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Warn("[Queue] Graph is locked by a running build, requeueing", "graph", data.GraphID)
	}
	if err != nil {
		return err
	}

	logger.Info("[Queue] Graph removed", "graph", data.GraphID)
	return nil
}
