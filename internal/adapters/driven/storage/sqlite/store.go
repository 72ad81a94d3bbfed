package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/podchunk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
)

// DatabaseName is the file created inside the data directory.
const DatabaseName = "runs.db"

// Store is a SQLite-based storage for pipeline runs.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.podchunk/data/runs.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".podchunk", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	var version int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveRun stores or replaces a run with its chunks, rejection counts and
// failures in a single transaction.
func (s *chunkStore) SaveRun(ctx context.Context, run *domain.RunResult) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Cascades to chunks, rejections and failures.
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return fmt.Errorf("replacing run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, documents, original, kept, next_order)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UnixNano(), run.Documents,
		run.Report.Original, run.Report.Kept, run.NextOrder)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if err := saveChunks(ctx, tx, run); err != nil {
		return err
	}

	for rule, count := range run.Report.Rejections {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rejections (run_id, rule, count) VALUES (?, ?, ?)
		`, run.ID, string(rule), count); err != nil {
			return fmt.Errorf("saving rejection count: %w", err)
		}
	}

	for i, f := range run.Failures {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO failures (run_id, position, slug, episode_id, reason)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, i, f.Slug, f.EpisodeID, f.Reason); err != nil {
			return fmt.Errorf("saving failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// saveChunks writes the union of run.Chunks and run.Filtered, flagging
// membership of each set.
func saveChunks(ctx context.Context, tx *sql.Tx, run *domain.RunResult) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (run_id, chunk_id, episode_id, speaker, text, ord,
			start_time_raw, timestamp_seconds, in_all, kept)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, chunk_id) DO UPDATE SET
			in_all = MAX(in_all, excluded.in_all),
			kept = MAX(kept, excluded.kept)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	insert := func(c domain.Chunk, inAll, kept bool) error {
		if _, err := stmt.ExecContext(ctx, run.ID, c.ChunkID, c.EpisodeID, c.Speaker, c.Text,
			c.Order, c.StartTimeRaw, c.TimestampSeconds, boolToInt(inAll), boolToInt(kept)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", c.ChunkID, err)
		}
		return nil
	}

	for _, c := range run.Chunks {
		if err := insert(c, true, false); err != nil {
			return err
		}
	}
	for _, c := range run.Filtered {
		if err := insert(c, false, true); err != nil {
			return err
		}
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *chunkStore) GetRun(ctx context.Context, id string) (*domain.RunResult, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, started_at, documents, original, kept, next_order
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	if err := s.loadDetails(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// LatestRun retrieves the most recently started run.
func (s *chunkStore) LatestRun(ctx context.Context) (*domain.RunResult, error) {
	var id string
	err := s.store.db.QueryRowContext(ctx, `
		SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// ListRuns returns runs newest first, without their chunks.
func (s *chunkStore) ListRuns(ctx context.Context, limit int) ([]domain.RunResult, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, documents, original, kept, next_order
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		if err := s.loadSummary(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// loadDetails fills chunks, rejections and failures.
func (s *chunkStore) loadDetails(ctx context.Context, run *domain.RunResult) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chunk_id, episode_id, speaker, text, ord, start_time_raw,
			timestamp_seconds, in_all, kept
		FROM chunks WHERE run_id = ?
		ORDER BY ord, chunk_id
	`, run.ID)
	if err != nil {
		return fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	run.Chunks = []domain.Chunk{}
	run.Filtered = []domain.Chunk{}
	for rows.Next() {
		var (
			c           domain.Chunk
			inAll, kept int
		)
		if err := rows.Scan(&c.ChunkID, &c.EpisodeID, &c.Speaker, &c.Text, &c.Order,
			&c.StartTimeRaw, &c.TimestampSeconds, &inAll, &kept); err != nil {
			return fmt.Errorf("scanning chunk: %w", err)
		}
		if inAll == 1 {
			run.Chunks = append(run.Chunks, c)
		}
		if kept == 1 {
			run.Filtered = append(run.Filtered, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating chunks: %w", err)
	}

	return s.loadSummary(ctx, run)
}

// loadSummary fills rejection counts and failures.
func (s *chunkStore) loadSummary(ctx context.Context, run *domain.RunResult) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT rule, count FROM rejections WHERE run_id = ?
	`, run.ID)
	if err != nil {
		return fmt.Errorf("querying rejections: %w", err)
	}
	for rows.Next() {
		var (
			rule  string
			count int
		)
		if err := rows.Scan(&rule, &count); err != nil {
			rows.Close()
			return fmt.Errorf("scanning rejection: %w", err)
		}
		run.Report.Rejections[domain.RuleName(rule)] = count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating rejections: %w", err)
	}
	rows.Close()

	rows, err = s.store.db.QueryContext(ctx, `
		SELECT slug, episode_id, reason FROM failures
		WHERE run_id = ? ORDER BY position
	`, run.ID)
	if err != nil {
		return fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.DocumentFailure
		if err := rows.Scan(&f.Slug, &f.EpisodeID, &f.Reason); err != nil {
			return fmt.Errorf("scanning failure: %w", err)
		}
		run.Failures = append(run.Failures, f)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating failures: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.RunResult, error) {
	var (
		run       domain.RunResult
		startedAt int64
		original  int
		kept      int
	)
	err := row.Scan(&run.ID, &startedAt, &run.Documents, &original, &kept, &run.NextOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.StartedAt = time.Unix(0, startedAt).UTC()
	run.Report = domain.NewFilterReport(original)
	run.Report.Kept = kept
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
