package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
	"github.com/custodia-labs/podchunk/internal/normalisers/transcript"
	"github.com/custodia-labs/podchunk/internal/postprocessors"
	"github.com/custodia-labs/podchunk/internal/postprocessors/qualityfilter"
	"github.com/custodia-labs/podchunk/internal/postprocessors/segmenter"
)

// mockSource implements driven.TranscriptSource over an in-memory map.
type mockSource struct {
	docs     map[string]string
	readErrs map[string]error
	listErr  error
}

func (m *mockSource) Type() string                     { return "mock" }
func (m *mockSource) Validate(_ context.Context) error { return nil }

func (m *mockSource) List(_ context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	slugs := make([]string, 0, len(m.docs)+len(m.readErrs))
	for slug := range m.docs {
		slugs = append(slugs, slug)
	}
	for slug := range m.readErrs {
		if _, ok := m.docs[slug]; !ok {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

func (m *mockSource) Read(_ context.Context, slug string) (*domain.RawTranscript, error) {
	if err, ok := m.readErrs[slug]; ok {
		return nil, err
	}
	text, ok := m.docs[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.RawTranscript{Slug: slug, URI: "mock://" + slug, Content: []byte(text)}, nil
}

// mockWatchSource adds a controllable change channel.
type mockWatchSource struct {
	mockSource
	changes  chan domain.TranscriptChange
	watchErr error
}

func (m *mockWatchSource) Watch(_ context.Context) (<-chan domain.TranscriptChange, error) {
	if m.watchErr != nil {
		return nil, m.watchErr
	}
	return m.changes, nil
}

// mockExporter records everything written to it.
type mockExporter struct {
	mu       sync.Mutex
	cleaned  []domain.CleanedTranscript
	chunks   []domain.ChunkSet
	filtered []domain.ChunkSet
	stats    [][]domain.EpisodeStats
	err      error
}

func (m *mockExporter) WriteCleaned(_ context.Context, t domain.CleanedTranscript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleaned = append(m.cleaned, t)
	return m.err
}

func (m *mockExporter) WriteChunks(_ context.Context, set domain.ChunkSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, set)
	return m.err
}

func (m *mockExporter) WriteFiltered(_ context.Context, set domain.ChunkSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filtered = append(m.filtered, set)
	return m.err
}

func (m *mockExporter) WriteStats(_ context.Context, stats []domain.EpisodeStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = append(m.stats, stats)
	return m.err
}

// mockStore fails every call with err.
type mockStore struct {
	err error
}

func (m *mockStore) SaveRun(_ context.Context, _ *domain.RunResult) error { return m.err }
func (m *mockStore) GetRun(_ context.Context, _ string) (*domain.RunResult, error) {
	return nil, m.err
}
func (m *mockStore) LatestRun(_ context.Context) (*domain.RunResult, error) { return nil, m.err }
func (m *mockStore) ListRuns(_ context.Context, _ int) ([]domain.RunResult, error) {
	return nil, m.err
}

var errBoom = errors.New("boom")

// newTestPipeline wires the real annotator, segmenter and default filter
// around src.
func newTestPipeline(src driven.TranscriptSource, opts ...PipelineOption) *PipelineService {
	return NewPipelineService(
		src,
		transcript.New(),
		segmenter.New(),
		postprocessors.NewPipeline(qualityfilter.NewWithConfig(domain.DefaultFilterConfig())),
		opts...,
	)
}
