package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dailypunch/internal/migration"
	"github.com/julianstephens/dailypunch/internal/storage/sqlstore"
	"github.com/julianstephens/dailypunch/migrations"
)

type Store struct {
	*sqlstore.Core
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) open() error {
	// Foreign keys and a busy timeout are per-connection pragmas.
	db, err := sql.Open("sqlite", s.path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	s.Core = sqlstore.New(db, migration.DriverSQLite)
	return nil
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.Migrate(nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'dailypunch init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.runner().ValidateVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) runner() *migration.Runner {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// The embedded directory is fixed at build time.
		panic(fmt.Sprintf("failed to access sqlite migrations: %v", err))
	}
	return migration.NewRunner(s.db, subFS, migration.DriverSQLite)
}

// Migrate applies pending migrations and returns how many ran.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	return s.runner().ApplyMigrations(logFn)
}

func (s *Store) PendingMigrations() (int, error) {
	return s.runner().PendingCount()
}

// tableExists reports whether a table exists, matching SQLite's
// case-insensitive names.
func (s *Store) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, or nil before Init or Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
