package cli

import (
	"bufio"
	"bytes"
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driving"
)

// mockPipelineService implements driving.PipelineService for testing.
type mockPipelineService struct {
	clean    *domain.CleanResult
	run      *domain.RunResult
	kept     []domain.Chunk
	report   domain.FilterReport
	err      error
	watchErr error
	watched  []*domain.RunResult
	filtered []domain.Chunk
	history  []domain.RunResult
	limit    int
}

func (m *mockPipelineService) Clean(_ context.Context) (*domain.CleanResult, error) {
	return m.clean, m.err
}

func (m *mockPipelineService) Chunk(_ context.Context) (*domain.RunResult, error) {
	return m.run, m.err
}

func (m *mockPipelineService) Filter(_ context.Context, chunks []domain.Chunk) ([]domain.Chunk, domain.FilterReport, error) {
	m.filtered = chunks
	return m.kept, m.report, m.err
}

func (m *mockPipelineService) Run(_ context.Context) (*domain.RunResult, error) {
	return m.run, m.err
}

func (m *mockPipelineService) ChunkText(_ context.Context, _, _ string) ([]domain.Chunk, error) {
	return nil, m.err
}

func (m *mockPipelineService) Latest(_ context.Context) (*domain.RunResult, error) {
	return m.run, m.err
}

func (m *mockPipelineService) History(_ context.Context, limit int) ([]domain.RunResult, error) {
	m.limit = limit
	return m.history, m.err
}

func (m *mockPipelineService) Watch(_ context.Context, handle func(*domain.RunResult, error)) error {
	if m.watchErr != nil {
		return m.watchErr
	}
	for _, run := range m.watched {
		handle(run, nil)
	}
	if m.err != nil {
		handle(nil, m.err)
	}
	return nil
}

// mockStatsService implements driving.StatsService for testing.
type mockStatsService struct {
	stats []domain.EpisodeStats
	err   error
}

func (m *mockStatsService) Collect(_ context.Context) ([]domain.EpisodeStats, error) {
	return m.stats, m.err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	getErr   error
	setErr   error
	set      map[string]string
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) StoredKeys() []string {
	keys := make([]string, 0, len(m.set))
	for k := range m.set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) Path() string {
	return "/tmp/podchunk/config.toml"
}

var (
	_ driving.PipelineService = (*mockPipelineService)(nil)
	_ driving.StatsService    = (*mockStatsService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

// setupServices installs mocks and returns a restore function.
func setupServices(s *Services) func() {
	oldPipeline, oldStats, oldSettings := pipelineService, statsService, settingsService
	oldOpts := opts
	SetServices(s)
	return func() {
		pipelineService, statsService, settingsService = oldPipeline, oldStats, oldSettings
		closeServices = nil
		opts = oldOpts
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func bufioReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}
