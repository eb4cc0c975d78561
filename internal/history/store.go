package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"subtitlecat/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different build.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists runs in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or connects to the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "database path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Begin inserts a running run and returns it with a fresh job id.
func (s *Store) Begin(ctx context.Context, kind Kind, root, target string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Root:      root,
		Target:    target,
		Status:    StatusRunning,
		StartedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, root, target, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(kind), nullableString(root), nullableString(target), run.Status, formatTime(run.StartedAt),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// AddItem records one file outcome.
func (s *Store) AddItem(ctx context.Context, runID, path, outcome, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_items (run_id, path, outcome, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, path, outcome, nullableString(detail), formatTime(s.now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("insert run item: %w", err)
	}
	return nil
}

// Finish stamps the final status of a run.
func (s *Store) Finish(ctx context.Context, runID, status, errorMessage string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		status, nullableString(errorMessage), formatTime(s.now().UTC()), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return services.Wrap(services.ErrNotFound, "history", "finish", "run "+runID, nil)
	}
	return nil
}

const runColumns = `r.id, r.kind, r.root, r.target, r.status, r.error_message, r.started_at, r.finished_at,
    COALESCE(SUM(CASE WHEN i.outcome = 'produced' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN i.outcome = 'failed' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN i.outcome = 'skipped' THEN 1 ELSE 0 END), 0)`

// List returns the newest runs first. A limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + `
        FROM runs r LEFT JOIN run_items i ON i.run_id = r.id
        GROUP BY r.id
        ORDER BY r.started_at DESC, r.rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run with its items. A job id prefix is accepted when it is
// unambiguous.
func (s *Store) Get(ctx context.Context, id string) (Run, []Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, nil, services.Wrap(services.ErrValidation, "history", "get", "job id is empty", nil)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+`
        FROM runs r LEFT JOIN run_items i ON i.run_id = r.id
        WHERE r.id LIKE ? || '%'
        GROUP BY r.id
        LIMIT 2`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("get run: %w", err)
	}
	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return Run{}, nil, err
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Run{}, nil, err
	}
	switch len(matches) {
	case 0:
		return Run{}, nil, services.Wrap(services.ErrNotFound, "history", "get", "no run "+id, nil)
	case 1:
	default:
		return Run{}, nil, services.Wrap(services.ErrValidation, "history", "get", "job id prefix "+id+" is ambiguous", nil)
	}

	run := matches[0]
	items, err := s.items(ctx, run.ID)
	if err != nil {
		return Run{}, nil, err
	}
	return run, items, nil
}

func (s *Store) items(ctx context.Context, runID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, path, outcome, detail, created_at FROM run_items WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run items: %w", err)
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var (
			item    Item
			detail  sql.NullString
			created string
		)
		if err := rows.Scan(&item.ID, &item.RunID, &item.Path, &item.Outcome, &detail, &created); err != nil {
			return nil, fmt.Errorf("scan run item: %w", err)
		}
		item.Detail = detail.String
		item.CreatedAt = parseTime(created)
		items = append(items, item)
	}
	return items, rows.Err()
}

// Prune removes runs that started before cutoff, returning how many were deleted.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, formatTime(cutoff.UTC()))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run      Run
		kind     string
		root     sql.NullString
		target   sql.NullString
		errMsg   sql.NullString
		started  string
		finished sql.NullString
	)
	if err := scanner.Scan(&run.ID, &kind, &root, &target, &run.Status, &errMsg, &started, &finished,
		&run.Produced, &run.Failed, &run.Skipped); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = Kind(kind)
	run.Root = root.String
	run.Target = target.String
	run.ErrorMessage = errMsg.String
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	return run, nil
}

// timeLayout keeps a fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
