package pgx

import (
	"context"
	"errors"

	"github.com/mythograph/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
)

// CreateBuild inserts a new build job record in the queued state.
func (s *GraphDBStore) CreateBuild(ctx context.Context, b store.BuildRecord) error {
	status := b.Status
	if status == "" {
		status = store.BuildStatusQueued
	}
	_, err := s.conn.Exec(ctx, `
		INSERT INTO builds (public_id, graph_id, status, requested_by)
		VALUES ($1, $2, $3, $4)
	`, b.ID, b.GraphID, status, b.RequestedBy)
	return err
}

// GetBuild returns the build job stored under the given public id.
func (s *GraphDBStore) GetBuild(ctx context.Context, id string) (*store.BuildRecord, error) {
	rec := store.BuildRecord{ID: id}
	err := s.conn.QueryRow(ctx, `
		SELECT graph_id, status, error, requested_by, created_at, updated_at
		FROM builds
		WHERE public_id = $1
	`, id).Scan(&rec.GraphID, &rec.Status, &rec.Error, &rec.RequestedBy, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrBuildNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetBuildStatus transitions a build job to the given status. The error
// message is cleared when empty.
func (s *GraphDBStore) SetBuildStatus(ctx context.Context, id string, status string, errMsg string) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE builds
		SET status = $2, error = $3, updated_at = now()
		WHERE public_id = $1
	`, id, status, errMsg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrBuildNotFound
	}
	return nil
}
