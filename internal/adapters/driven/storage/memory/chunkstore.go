package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunResult
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		runs: make(map[string]domain.RunResult),
	}
}

// SaveRun stores or replaces a run.
func (s *ChunkStore) SaveRun(_ context.Context, run *domain.RunResult) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = cloneRun(*run, true)
	return nil
}

// GetRun retrieves a run by ID.
func (s *ChunkStore) GetRun(_ context.Context, id string) (*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneRun(run, true)
	return &out, nil
}

// LatestRun retrieves the most recently started run.
func (s *ChunkStore) LatestRun(ctx context.Context) (*domain.RunResult, error) {
	s.mu.RLock()
	sorted := s.sortedLocked()
	s.mu.RUnlock()

	if len(sorted) == 0 {
		return nil, domain.ErrNotFound
	}
	return s.GetRun(ctx, sorted[0].ID)
}

// ListRuns returns runs newest first, without their chunks.
// A limit of zero or less returns every run.
func (s *ChunkStore) ListRuns(_ context.Context, limit int) ([]domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := s.sortedLocked()
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]domain.RunResult, len(sorted))
	for i, run := range sorted {
		out[i] = cloneRun(run, false)
	}
	return out, nil
}

// sortedLocked returns runs newest first (caller must hold lock).
func (s *ChunkStore) sortedLocked() []domain.RunResult {
	runs := make([]domain.RunResult, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	return runs
}

// cloneRun copies a run so callers cannot mutate stored slices.
func cloneRun(run domain.RunResult, withChunks bool) domain.RunResult {
	out := run
	out.Failures = append([]domain.DocumentFailure(nil), run.Failures...)
	out.Report = domain.NewFilterReport(run.Report.Original)
	out.Report.Kept = run.Report.Kept
	for rule, n := range run.Report.Rejections {
		out.Report.Rejections[rule] = n
	}
	if withChunks {
		out.Chunks = append([]domain.Chunk(nil), run.Chunks...)
		out.Filtered = append([]domain.Chunk(nil), run.Filtered...)
	} else {
		out.Chunks = nil
		out.Filtered = nil
	}
	return out
}
