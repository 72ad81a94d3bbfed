package mcp

import (
	"context"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	chunks   []domain.Chunk
	kept     []domain.Chunk
	report   domain.FilterReport
	latest   *domain.RunResult
	err      error
	gotSlug  string
	gotText  string
	gotInput []domain.Chunk
}

func (m *mockPipelineService) Clean(_ context.Context) (*domain.CleanResult, error) {
	return &domain.CleanResult{}, m.err
}

func (m *mockPipelineService) Chunk(_ context.Context) (*domain.RunResult, error) {
	return &domain.RunResult{Chunks: m.chunks}, m.err
}

func (m *mockPipelineService) Filter(
	_ context.Context,
	chunks []domain.Chunk,
) ([]domain.Chunk, domain.FilterReport, error) {
	m.gotInput = chunks
	return m.kept, m.report, m.err
}

func (m *mockPipelineService) Run(_ context.Context) (*domain.RunResult, error) {
	return m.latest, m.err
}

func (m *mockPipelineService) ChunkText(_ context.Context, slug, text string) ([]domain.Chunk, error) {
	m.gotSlug = slug
	m.gotText = text
	return m.chunks, m.err
}

func (m *mockPipelineService) Latest(_ context.Context) (*domain.RunResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.latest == nil {
		return nil, domain.ErrNotFound
	}
	return m.latest, nil
}

func (m *mockPipelineService) History(_ context.Context, _ int) ([]domain.RunResult, error) {
	return nil, m.err
}

func (m *mockPipelineService) Watch(_ context.Context, _ func(*domain.RunResult, error)) error {
	return m.err
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats []domain.EpisodeStats
	err   error
}

func (m *mockStatsService) Collect(_ context.Context) ([]domain.EpisodeStats, error) {
	return m.stats, m.err
}
