// Package store persists ordering runs for later retrieval.
//
// Each run records the input graph fingerprint, the computed sequence, and
// the outlier report. The HTTP service stores a run per request so clients
// can fetch results again by ID; the CLI can do the same when pointed at a
// shared backend.
//
// Two backends are provided:
//   - memory: in-process storage for development and testing
//   - mongo: MongoDB-backed storage for deployments
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/viewgraph/viewgraph/pkg/graph"
)

// Run is a persisted ordering run.
type Run struct {
	ID           string              `json:"id" bson:"_id"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	GraphHash    string              `json:"graph_hash" bson:"graph_hash"`
	ViewCount    int                 `json:"view_count" bson:"view_count"`
	EdgeCount    int                 `json:"edge_count" bson:"edge_count"`
	Sequence     []string            `json:"sequence" bson:"sequence"`
	Outliers     []graph.OutlierEdge `json:"outliers" bson:"outliers"`
	OutlierTotal float64             `json:"outlier_total" bson:"outlier_total"`
	DurationMS   int64               `json:"duration_ms" bson:"duration_ms"`
}

// NewRun creates a run with a fresh UUID and the current timestamp. The
// caller fills in the result fields.
func NewRun() *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for run storage backends.
type Store interface {
	// Put stores a run, replacing any existing run with the same ID.
	Put(ctx context.Context, run *Run) error

	// Get retrieves a run by ID. Returns an error with code RUN_NOT_FOUND
	// if no run exists.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first. A limit of zero or less
	// applies a backend default.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// DefaultListLimit bounds List when the caller does not.
const DefaultListLimit = 50
