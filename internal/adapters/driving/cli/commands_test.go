package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

func chunk(t *testing.T, order int, text string) domain.Chunk {
	t.Helper()
	c, err := domain.NewChunk("ep_demo", "Guest", text, "00:00:10", order)
	require.NoError(t, err)
	return c
}

func TestCleanCmd(t *testing.T) {
	pipeline := &mockPipelineService{clean: &domain.CleanResult{
		Transcripts: make([]domain.CleanedTranscript, 2),
		Failures:    []domain.DocumentFailure{domain.NewDocumentFailure("bad", errors.New("read: boom"))},
	}}
	cleanup := setupServices(&Services{Pipeline: pipeline})
	defer cleanup()

	out, err := execute(t, "clean")

	require.NoError(t, err)
	assert.Contains(t, out, "Cleaned 2 transcripts with speaker + time labels")
	assert.Contains(t, out, "bad: read: boom")
}

func TestCleanCmd_Error(t *testing.T) {
	cleanup := setupServices(&Services{Pipeline: &mockPipelineService{err: errors.New("no source")}})
	defer cleanup()

	_, err := execute(t, "clean")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "clean failed: no source")
}

func TestChunkCmd(t *testing.T) {
	run := &domain.RunResult{
		Documents: 2,
		Chunks:    []domain.Chunk{chunk(t, 0, "a"), chunk(t, 1, "b"), chunk(t, 2, "c")},
		NextOrder: 3,
	}
	cleanup := setupServices(&Services{Pipeline: &mockPipelineService{run: run}})
	defer cleanup()

	out, err := execute(t, "chunk")

	require.NoError(t, err)
	assert.Contains(t, out, "Created 3 chunks from 2 documents")
	assert.Contains(t, out, "Next order: 3")
}

func TestRunCmd(t *testing.T) {
	rep := domain.NewFilterReport(3)
	rep.Kept = 1
	rep.Rejections[domain.RuleTooShort] = 2
	run := &domain.RunResult{
		ID:        "run-1",
		Documents: 1,
		Chunks:    []domain.Chunk{chunk(t, 0, "a"), chunk(t, 1, "b"), chunk(t, 2, "c")},
		Filtered:  []domain.Chunk{chunk(t, 2, "c")},
		Report:    rep,
	}
	cleanup := setupServices(&Services{Pipeline: &mockPipelineService{run: run}})
	defer cleanup()

	out, err := execute(t, "run")

	require.NoError(t, err)
	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "Original chunks : 3")
	assert.Contains(t, out, "Filtered chunks : 1")
	assert.Contains(t, out, "too_short")
}

func TestRunCmd_Error(t *testing.T) {
	cleanup := setupServices(&Services{Pipeline: &mockPipelineService{err: errors.New("disk full")}})
	defer cleanup()

	_, err := execute(t, "run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run failed: disk full")
}

func TestStatsCmd(t *testing.T) {
	stats := &mockStatsService{stats: []domain.EpisodeStats{{Episode: "ep", WordCount: 12, LineCount: 3}}}
	cleanup := setupServices(&Services{Stats: stats})
	defer cleanup()

	out, err := execute(t, "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Total episodes processed: 1")
	assert.Contains(t, out, "ep")
}

func TestStatsCmd_JSON(t *testing.T) {
	stats := &mockStatsService{stats: []domain.EpisodeStats{{Episode: "ep", WordCount: 12, LineCount: 3}}}
	cleanup := setupServices(&Services{Stats: stats})
	defer cleanup()
	defer func() { statsJSON = false }()

	out, err := execute(t, "stats", "--json")

	require.NoError(t, err)
	var got []domain.EpisodeStats
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, stats.stats, got)
}

func TestFilterCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "chunks.json")
	set := domain.NewChunkSet([]domain.Chunk{chunk(t, 0, "short"), chunk(t, 1, "kept")}, time.Now())
	data, err := json.Marshal(set)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(in, data, 0644))

	rep := domain.NewFilterReport(2)
	rep.Kept = 1
	rep.Rejections[domain.RuleTooShort] = 1
	pipeline := &mockPipelineService{kept: set.Chunks[1:], report: rep}
	cleanup := setupServices(&Services{Pipeline: pipeline})
	defer cleanup()

	out, err := execute(t, "filter", in)

	require.NoError(t, err)
	assert.Len(t, pipeline.filtered, 2)
	assert.Contains(t, out, "Reduction       : 1 (50.0%)")
	assert.Contains(t, out, "Saved to "+filepath.Join(dir, "chunks_filtered.json"))

	written, err := os.ReadFile(filepath.Join(dir, "chunks_filtered.json"))
	require.NoError(t, err)
	var got domain.ChunkSet
	require.NoError(t, json.Unmarshal(written, &got))
	assert.Equal(t, domain.FilteredSchemaVersion, got.SchemaVersion)
	assert.Equal(t, 1, got.TotalChunks)
	assert.Equal(t, "ep_demo_0001", got.Chunks[0].ChunkID)
}

func TestFilterCmd_DefaultsToOutputDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chunks.json"), []byte(`{"chunks":[]}`), 0644))

	cleanup := setupServices(&Services{Pipeline: &mockPipelineService{report: domain.NewFilterReport(0)}})
	defer cleanup()

	_, err := execute(t, "filter", "--output", dir)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "chunks_filtered.json"))
}

func TestFilterCmd_OutFlag(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"chunks":[]}`), 0644))
	out := filepath.Join(dir, "nested", "kept.json")

	cleanup := setupServices(&Services{Pipeline: &mockPipelineService{report: domain.NewFilterReport(0)}})
	defer cleanup()
	defer func() { filterOut = "" }()

	_, err := execute(t, "filter", in, "--out", out)

	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestFilterCmd_MissingInput(t *testing.T) {
	cleanup := setupServices(&Services{Pipeline: &mockPipelineService{}})
	defer cleanup()

	_, err := execute(t, "filter", filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read chunks")
}

func TestFilterCmd_BadJSON(t *testing.T) {
	in := filepath.Join(t.TempDir(), "chunks.json")
	require.NoError(t, os.WriteFile(in, []byte("not json"), 0644))

	cleanup := setupServices(&Services{Pipeline: &mockPipelineService{}})
	defer cleanup()

	_, err := execute(t, "filter", in)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestOutputDir(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		settings := newMockSettings()
		settings.settings.OutputDir = "from-settings"
		cleanup := setupServices(&Services{Settings: settings})
		defer cleanup()
		opts.OutputDir = "from-flag"

		assert.Equal(t, "from-flag", outputDir())
	})

	t.Run("settings next", func(t *testing.T) {
		settings := newMockSettings()
		settings.settings.OutputDir = "from-settings"
		cleanup := setupServices(&Services{Settings: settings})
		defer cleanup()

		assert.Equal(t, "from-settings", outputDir())
	})

	t.Run("default last", func(t *testing.T) {
		cleanup := setupServices(nil)
		defer cleanup()

		assert.Equal(t, domain.DefaultOutputDir, outputDir())
	})
}

func TestWatchCmd(t *testing.T) {
	run := &domain.RunResult{ID: "run-w", Documents: 1, Report: domain.NewFilterReport(0)}
	cleanup := setupServices(&Services{Pipeline: &mockPipelineService{watched: []*domain.RunResult{run, run}}})
	defer cleanup()

	out, err := execute(t, "watch")

	require.NoError(t, err)
	assert.Contains(t, out, "Watching for transcript changes...")
	assert.Contains(t, out, "Run run-w")
	assert.Contains(t, out, "Stopped watching.")
}

func TestWatchCmd_Unsupported(t *testing.T) {
	pipeline := &mockPipelineService{watchErr: domain.ErrUnsupportedType}
	cleanup := setupServices(&Services{Pipeline: pipeline})
	defer cleanup()

	_, err := execute(t, "watch")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "watch is not available")
}

func TestRunsCmd(t *testing.T) {
	pipeline := &mockPipelineService{history: []domain.RunResult{{ID: "run-9", Documents: 4}}}
	cleanup := setupServices(&Services{Pipeline: pipeline})
	defer cleanup()
	defer func() { runsLimit = 10 }()

	out, err := execute(t, "runs", "-n", "3")

	require.NoError(t, err)
	assert.Equal(t, 3, pipeline.limit)
	assert.Contains(t, out, "run-9")
}

func TestRunsCmd_StorageDisabled(t *testing.T) {
	pipeline := &mockPipelineService{err: domain.ErrNotFound}
	cleanup := setupServices(&Services{Pipeline: pipeline})
	defer cleanup()

	out, err := execute(t, "runs")

	require.NoError(t, err)
	assert.Contains(t, out, "Run storage is disabled")
}

func TestMCPServeCmd_RequiresPipeline(t *testing.T) {
	cleanup := setupServices(&Services{})
	defer cleanup()

	_, err := execute(t, "mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mcp serve failed")
}
