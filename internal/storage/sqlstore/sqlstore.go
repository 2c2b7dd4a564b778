// Package sqlstore holds the entity queries shared by the SQLite and
// PostgreSQL stores. Queries are written with "?" placeholders and
// rebound for the active dialect.
package sqlstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/dailypunch/internal/migration"
)

// Core runs entity queries against an open database.
type Core struct {
	db      *sql.DB
	dialect migration.Driver
}

func New(db *sql.DB, dialect migration.Driver) *Core {
	return &Core{db: db, dialect: dialect}
}

// DB returns the underlying connection.
func (c *Core) DB() *sql.DB {
	return c.db
}

// rebind rewrites "?" placeholders to "$n" for PostgreSQL.
func (c *Core) rebind(query string) string {
	if c.dialect != migration.DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (c *Core) exec(query string, args ...any) (sql.Result, error) {
	return c.db.Exec(c.rebind(query), args...)
}

func (c *Core) query(query string, args ...any) (*sql.Rows, error) {
	return c.db.Query(c.rebind(query), args...)
}

func (c *Core) queryRow(query string, args ...any) *sql.Row {
	return c.db.QueryRow(c.rebind(query), args...)
}

// affected returns notFound when the statement touched no rows.
func affected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

func parseNullTime(field string, ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(field, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
