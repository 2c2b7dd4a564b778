package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/models"
)

const userColumns = "id, phone, call_enabled, call_time, timezone, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var phone, callTime sql.NullString
	var createdAt string
	if err := row.Scan(&u.ID, &phone, &u.CallEnabled, &callTime, &u.Timezone, &createdAt); err != nil {
		return models.User{}, err
	}
	u.Phone = phone.String
	u.CallTime = callTime.String

	var err error
	u.CreatedAt, err = parseTime("created_at", createdAt)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (c *Core) GetUser(id string) (models.User, error) {
	u, err := scanUser(c.queryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.NotFound("user %s", id)
	}
	return u, err
}

// EnsureUser returns the user, creating an empty record on first sight.
func (c *Core) EnsureUser(id string) (models.User, error) {
	_, err := c.exec(`
		INSERT INTO users (id, timezone, created_at)
		VALUES (?, '', ?)
		ON CONFLICT(id) DO NOTHING`,
		id, formatTime(time.Now()))
	if err != nil {
		return models.User{}, err
	}
	return c.GetUser(id)
}

func (c *Core) SaveUser(u models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := c.exec(`
		INSERT INTO users (id, phone, call_enabled, call_time, timezone, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phone = excluded.phone,
			call_enabled = excluded.call_enabled,
			call_time = excluded.call_time,
			timezone = excluded.timezone`,
		u.ID, nullString(u.Phone), u.CallEnabled, nullString(u.CallTime), u.Timezone, formatTime(u.CreatedAt))
	return err
}

func (c *Core) listUsers(query string, args ...any) ([]models.User, error) {
	rows, err := c.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (c *Core) GetAllUsers() ([]models.User, error) {
	return c.listUsers("SELECT " + userColumns + " FROM users ORDER BY created_at")
}

// GetCallEnabledUsers returns users with calls switched on, a phone number
// and a call time.
func (c *Core) GetCallEnabledUsers() ([]models.User, error) {
	return c.listUsers(`SELECT `+userColumns+` FROM users
		WHERE call_enabled = ? AND phone IS NOT NULL AND phone <> '' AND call_time IS NOT NULL
		ORDER BY created_at`, true)
}
