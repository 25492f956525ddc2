package store

import (
	"context"
	"errors"
	"time"

	"github.com/mythograph/backend/pkg/common"
)

// ErrGraphNotFound is returned when the requested graph does not exist.
var ErrGraphNotFound = errors.New("graph not found")

// ErrBuildNotFound is returned when the requested build job does not exist.
var ErrBuildNotFound = errors.New("build not found")

// Build job lifecycle states.
const (
	BuildStatusQueued  = "queued"
	BuildStatusRunning = "running"
	BuildStatusDone    = "done"
	BuildStatusFailed  = "failed"
)

// GraphRecord describes a stored graph without its node and edge payload.
type GraphRecord struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	NodeCount int            `json:"node_count"`
	EdgeCount int            `json:"edge_count"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"created_at"`
}

// GraphStore defines the interface for persisting assembled knowledge graphs.
// SaveGraph replaces any existing graph stored under the same id.
type GraphStore interface {
	SaveGraph(ctx context.Context, id string, name string, g common.Graph) error
	GetGraph(ctx context.Context, id string) (common.Graph, error)
	GetGraphRecord(ctx context.Context, id string) (*GraphRecord, error)
	ListGraphs(ctx context.Context) ([]GraphRecord, error)
	DeleteGraph(ctx context.Context, id string) error
}

// BuildRecord tracks a queued graph build job.
type BuildRecord struct {
	ID          string    `json:"id"`
	GraphID     string    `json:"graph_id"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BuildStore defines the interface for tracking build job state.
type BuildStore interface {
	CreateBuild(ctx context.Context, b BuildRecord) error
	GetBuild(ctx context.Context, id string) (*BuildRecord, error)
	SetBuildStatus(ctx context.Context, id string, status string, errMsg string) error
}
