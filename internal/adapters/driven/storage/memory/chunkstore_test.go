package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
)

func testRun(id string, started time.Time) *domain.RunResult {
	chunk := domain.Chunk{
		ChunkID:          "ep_a_0000",
		EpisodeID:        "ep_a",
		Speaker:          "Alice",
		Text:             "Hello there.",
		Order:            0,
		StartTimeRaw:     "00:00:05",
		TimestampSeconds: 5,
	}
	report := domain.NewFilterReport(1)
	report.Rejections[domain.RuleTooShort] = 1

	return &domain.RunResult{
		ID:        id,
		StartedAt: started,
		Documents: 2,
		Chunks:    []domain.Chunk{chunk},
		Filtered:  []domain.Chunk{},
		Report:    report,
		Failures:  []domain.DocumentFailure{{Slug: "b", EpisodeID: "ep_b", Reason: "boom"}},
		NextOrder: 1,
	}
}

func TestNewChunkStore(t *testing.T) {
	store := NewChunkStore()
	require.NotNil(t, store)

	var _ driven.ChunkStore = store
}

func TestChunkStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewChunkStore()
	run := testRun("run-1", time.Now())

	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Chunks, got.Chunks)
	assert.Equal(t, 1, got.Report.Rejections[domain.RuleTooShort])
	assert.Equal(t, run.Failures, got.Failures)
	assert.Equal(t, 1, got.NextOrder)
}

func TestChunkStore_SaveRun_RequiresID(t *testing.T) {
	store := NewChunkStore()

	err := store.SaveRun(context.Background(), &domain.RunResult{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.SaveRun(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChunkStore_GetRun_NotFound(t *testing.T) {
	_, err := NewChunkStore().GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStore_LatestRun(t *testing.T) {
	ctx := context.Background()
	store := NewChunkStore()

	_, err := store.LatestRun(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRun(ctx, testRun("old", base)))
	require.NoError(t, store.SaveRun(ctx, testRun("new", base.Add(time.Hour))))

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)
	assert.Len(t, latest.Chunks, 1)
}

func TestChunkStore_ListRuns(t *testing.T) {
	ctx := context.Background()
	store := NewChunkStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.SaveRun(ctx, testRun(id, base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "a", runs[2].ID)
	assert.Nil(t, runs[0].Chunks, "list omits chunks")

	runs, err = store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestChunkStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := NewChunkStore()
	run := testRun("run-1", time.Now())
	require.NoError(t, store.SaveRun(ctx, run))

	run.Chunks[0].Text = "mutated"
	run.Report.Rejections[domain.RuleTooShort] = 99

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", got.Chunks[0].Text)
	assert.Equal(t, 1, got.Report.Rejections[domain.RuleTooShort])
}
