package driven

import (
	"context"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// ChunkStore persists pipeline runs.
type ChunkStore interface {
	// SaveRun stores a run. run.ID must be set.
	SaveRun(ctx context.Context, run *domain.RunResult) error

	// GetRun retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, id string) (*domain.RunResult, error)

	// LatestRun retrieves the most recently started run.
	// Returns domain.ErrNotFound if no run has been saved.
	LatestRun(ctx context.Context) (*domain.RunResult, error)

	// ListRuns returns runs newest first, without their chunks.
	ListRuns(ctx context.Context, limit int) ([]domain.RunResult, error)
}
