// Package migration applies the numbered SQL files embedded under
// migrations/ and tracks the applied version in a one-row schema_version
// table. The same runner serves SQLite and PostgreSQL.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Driver selects the SQL dialect for the bookkeeping queries.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ErrSchemaTooNew means the database was migrated by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than this build supports")

type Migration struct {
	Version int
	Name    string
	SQL     string
}

type Runner struct {
	db     *sql.DB
	fs     fs.FS
	driver Driver
}

func NewRunner(db *sql.DB, migrationFS fs.FS, driver Driver) *Runner {
	return &Runner{db: db, fs: migrationFS, driver: driver}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (r *Runner) insertVersionSQL() string {
	if r.driver == DriverPostgres {
		return "INSERT INTO schema_version (version) VALUES ($1)"
	}
	return "INSERT INTO schema_version (version) VALUES (?)"
}

// writeVersion replaces the stored version through db or an open tx.
func (r *Runner) writeVersion(e execer, version int) error {
	if _, err := e.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version: %w", err)
	}
	if _, err := e.Exec(r.insertVersionSQL(), version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}

func (r *Runner) EnsureSchemaVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

// GetCurrentVersion returns the applied version, 0 for a fresh database.
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

func (r *Runner) SetVersion(version int) error {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return r.writeVersion(r.db, version)
}

func parseFilename(name string) (int, string, error) {
	prefix, rest, ok := strings.Cut(name, "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in filename %s: %w", name, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in filename %s: version must be at least 1", name)
	}
	return version, strings.TrimSuffix(rest, ".sql"), nil
}

// ReadMigrationFiles returns the NNN_name.sql files sorted by version.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		version, name, err := parseFilename(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.fs, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func (r *Runner) GetLatestVersion() (int, error) {
	ms, err := r.ReadMigrationFiles()
	if err != nil || len(ms) == 0 {
		return 0, err
	}
	return ms[len(ms)-1].Version, nil
}

// plan compares the database against the embedded files.
type plan struct {
	current int
	latest  int
	pending []Migration
}

func (r *Runner) plan() (plan, error) {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return plan{}, err
	}
	ms, err := r.ReadMigrationFiles()
	if err != nil {
		return plan{}, fmt.Errorf("failed to read migrations: %w", err)
	}

	p := plan{current: current}
	if len(ms) > 0 {
		p.latest = ms[len(ms)-1].Version
	}
	if current > p.latest {
		return p, fmt.Errorf("%w: database is at version %d, this build knows %d - please upgrade the application", ErrSchemaTooNew, current, p.latest)
	}
	for _, m := range ms {
		if m.Version > current {
			p.pending = append(p.pending, m)
		}
	}
	return p, nil
}

// ApplyMigrations applies every pending migration in order and returns
// how many ran. Each migration commits together with its version bump.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	p, err := r.plan()
	if err != nil {
		return 0, err
	}
	if p.latest == 0 {
		logFn("No migration files found")
		return 0, nil
	}
	if len(p.pending) == 0 {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", p.current))
		return 0, nil
	}

	logFn(fmt.Sprintf("Migrating schema from version %d to %d (%d pending)", p.current, p.latest, len(p.pending)))
	start := time.Now()
	for i, m := range p.pending {
		logFn(fmt.Sprintf("  Applying migration %d: %s", m.Version, m.Name))
		if err := r.apply(m); err != nil {
			return i, err
		}
		logFn(fmt.Sprintf("  ✓ Migration %d applied", m.Version))
	}
	logFn(fmt.Sprintf("Applied %d migration(s) in %v", len(p.pending), time.Since(start).Round(time.Millisecond)))
	return len(p.pending), nil
}

func (r *Runner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec(m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if err := r.writeVersion(tx, m.Version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// ValidateVersion fails with ErrSchemaTooNew when the database is ahead
// of this build.
func (r *Runner) ValidateVersion() error {
	_, err := r.plan()
	return err
}

func (r *Runner) PendingCount() (int, error) {
	p, err := r.plan()
	if err != nil {
		return 0, err
	}
	return len(p.pending), nil
}
