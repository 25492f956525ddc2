package pgx

import (
	"context"

	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/store"
)

// DeleteGraph removes the graph and all of its nodes and edges. Deleting a
// graph that does not exist returns store.ErrGraphNotFound.
func (s *GraphDBStore) DeleteGraph(ctx context.Context, id string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM graphs WHERE public_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrGraphNotFound
	}

	logger.Info("[GraphStore][DeleteGraph] Graph deleted", "graph", id)
	return nil
}
