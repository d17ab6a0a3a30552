package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/lists/internal/app"
	"github.com/evanschultz/lists/internal/domain"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// errQuickCheck reports a database that opened but failed PRAGMA quick_check.
var errQuickCheck = errors.New("sqlite quick_check failed")

// Repository stores the list collection in a sqlite database.
type Repository struct {
	db   *sql.DB
	path string
}

// Open opens the database at path, creating the parent directory when needed.
// Schema creation is deferred to the first Load or Save so a corrupt file can
// be reported as app.ErrStorageCorrupt instead of failing startup.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &Repository{db: db, path: path}, nil
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every pooled connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the schema when missing.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS lists (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			list_position INTEGER NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY(list_position, position),
			UNIQUE(list_position, name),
			FOREIGN KEY(list_position) REFERENCES lists(position) ON DELETE CASCADE
		);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// check runs sqlite's quick integrity check and the schema migration.
func (r *Repository) check(ctx context.Context) error {
	var result string
	if err := r.db.QueryRowContext(ctx, `PRAGMA quick_check`).Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("%w: %s", errQuickCheck, result)
	}
	return r.migrate(ctx)
}

// Load implements app.Store. A database that fails the integrity check is moved
// aside and replaced by an empty one, and the failure is reported as
// app.ErrStorageCorrupt.
func (r *Repository) Load(ctx context.Context) ([]domain.List, error) {
	if err := r.check(ctx); err != nil {
		if !isCorruptErr(err) {
			return nil, err
		}
		if qerr := r.quarantine(ctx); qerr != nil {
			return nil, fmt.Errorf("%w: %v (quarantine failed: %v)", app.ErrStorageCorrupt, err, qerr)
		}
		return nil, fmt.Errorf("%w: %v", app.ErrStorageCorrupt, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT l.position, l.name, t.name, t.completed
		FROM lists l
		LEFT JOIN tasks t ON t.list_position = l.position
		ORDER BY l.position ASC, t.position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	out := []domain.List{}
	last := -1
	for rows.Next() {
		var (
			position  int
			listName  string
			taskName  sql.NullString
			completed sql.NullInt64
		)
		if err := rows.Scan(&position, &listName, &taskName, &completed); err != nil {
			return nil, fmt.Errorf("scan list row: %w", err)
		}
		if position != last {
			out = append(out, domain.List{Name: listName, Tasks: []domain.Task{}})
			last = position
		}
		if taskName.Valid {
			list := &out[len(out)-1]
			list.Tasks = append(list.Tasks, domain.Task{Name: taskName.String, Completed: completed.Int64 != 0})
		}
	}
	return out, rows.Err()
}

// Save implements app.Store by replacing every row in one transaction.
func (r *Repository) Save(ctx context.Context, lists []domain.List) (err error) {
	if err := r.migrate(ctx); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM lists`); err != nil {
		return fmt.Errorf("clear lists: %w", err)
	}
	for listPos, list := range lists {
		if _, err = tx.ExecContext(ctx, `INSERT INTO lists(position, name) VALUES (?, ?)`, listPos, list.Name); err != nil {
			return fmt.Errorf("insert list %q: %w", list.Name, err)
		}
		for taskPos, task := range list.Tasks {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO tasks(list_position, position, name, completed)
				VALUES (?, ?, ?, ?)
			`, listPos, taskPos, task.Name, boolToInt(task.Completed))
			if err != nil {
				return fmt.Errorf("insert task %q: %w", task.Name, err)
			}
		}
	}

	err = tx.Commit()
	return err
}

// quarantine renames a corrupt database file and starts over with an empty one.
func (r *Repository) quarantine(ctx context.Context) error {
	if r.path == "" {
		return errors.New("in-memory database cannot be quarantined")
	}
	if err := r.db.Close(); err != nil {
		return err
	}
	target := fmt.Sprintf("%s.corrupt-%s", r.path, time.Now().UTC().Format("20060102T150405"))
	if err := os.Rename(r.path, target); err != nil {
		return err
	}
	db, err := sql.Open(driverName, r.path)
	if err != nil {
		return err
	}
	r.db = db
	return r.migrate(ctx)
}

// boolToInt maps a completion flag to its stored integer.
func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// isCorruptErr reports whether err comes from an unreadable database file.
func isCorruptErr(err error) bool {
	if errors.Is(err, errQuickCheck) {
		return true
	}
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
		return true
	default:
		return false
	}
}
