// Package jsonfile writes pipeline outputs as JSON and text files under an
// output directory:
//
//	<output>/cleaned/<slug>.txt
//	<output>/chunks.json
//	<output>/chunks_filtered.json
//	<output>/episode_stats.json
//
// Files are written to a temporary name and renamed into place so readers
// never observe a partial document.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Exporter = (*Exporter)(nil)

// Output file names.
const (
	CleanedDir       = "cleaned"
	ChunksFile       = "chunks.json"
	FilteredFile     = "chunks_filtered.json"
	EpisodeStatsFile = "episode_stats.json"
)

// Exporter writes outputs beneath a single directory.
type Exporter struct {
	dir string
}

// New creates an exporter rooted at dir. The directory is created lazily.
func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Dir returns the output directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// WriteCleaned writes one canonical transcript to cleaned/<slug>.txt.
func (e *Exporter) WriteCleaned(ctx context.Context, t domain.CleanedTranscript) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.Slug == "" {
		return fmt.Errorf("%w: cleaned transcript has no slug", domain.ErrInvalidInput)
	}
	path := filepath.Join(e.dir, CleanedDir, t.Slug+".txt")
	return writeAtomic(path, []byte(t.Text))
}

// WriteChunks writes the full segmented collection to chunks.json.
func (e *Exporter) WriteChunks(ctx context.Context, set domain.ChunkSet) error {
	return e.writeJSON(ctx, ChunksFile, set)
}

// WriteFiltered writes the filtered collection to chunks_filtered.json.
func (e *Exporter) WriteFiltered(ctx context.Context, set domain.ChunkSet) error {
	return e.writeJSON(ctx, FilteredFile, set)
}

// WriteStats writes per-episode statistics to episode_stats.json.
func (e *Exporter) WriteStats(ctx context.Context, stats []domain.EpisodeStats) error {
	if stats == nil {
		stats = []domain.EpisodeStats{}
	}
	return e.writeJSON(ctx, EpisodeStatsFile, stats)
}

func (e *Exporter) writeJSON(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return writeAtomic(filepath.Join(e.dir, name), data)
}

// encode renders v as indented JSON without HTML escaping so speech such
// as "Q&A" stays readable.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
