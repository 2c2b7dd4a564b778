package storage

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/dailypunch/internal/storage/postgres"
	"github.com/julianstephens/dailypunch/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// IsPostgres reports whether target is a PostgreSQL URL rather than a
// SQLite path.
func IsPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL carries a password.
func HasEmbeddedCredentials(target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.User == nil {
		return false
	}
	_, set := u.User.Password()
	return set
}

// Open returns the store for target without connecting. PostgreSQL URLs
// with embedded passwords are rejected.
func Open(target string) (Provider, error) {
	if IsPostgres(target) {
		if err := postgres.ValidateConnString(target); err != nil {
			return nil, fmt.Errorf("invalid database target: %w", err)
		}
		return postgres.New(target), nil
	}
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	return sqlite.NewStore(target), nil
}

// OpenTrusted is Open for targets read from the OS keyring, where an
// embedded password is allowed.
func OpenTrusted(target string) (Provider, error) {
	if IsPostgres(target) {
		return postgres.New(target), nil
	}
	return Open(target)
}
