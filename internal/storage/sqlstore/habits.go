package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/models"
)

const habitColumns = "id, user_id, name, description, emoji, theme, created_at, archived_at, deleted_at"

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var theme, createdAt string
	var archivedAt, deletedAt sql.NullString

	if err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Emoji, &theme, &createdAt, &archivedAt, &deletedAt); err != nil {
		return models.Habit{}, err
	}
	h.Theme = models.ThemeOrDefault(theme)

	var err error
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.ArchivedAt, err = parseNullTime("archived_at", archivedAt); err != nil {
		return models.Habit{}, err
	}
	if h.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (c *Core) AddHabit(habit models.Habit) error {
	return c.UpdateHabit(habit)
}

func (c *Core) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(c.queryRow(
		"SELECT "+habitColumns+" FROM habits WHERE id = ? AND deleted_at IS NULL", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("habit %s", id)
	}
	return h, err
}

func (c *Core) GetHabitByName(userID, name string) (models.Habit, error) {
	h, err := scanHabit(c.queryRow(
		"SELECT "+habitColumns+" FROM habits WHERE user_id = ? AND name = ? AND deleted_at IS NULL", userID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("habit %q", name)
	}
	return h, err
}

func (c *Core) listHabits(where string, includeArchived, includeDeleted bool, args ...any) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE " + where
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at, name"

	rows, err := c.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (c *Core) GetHabitsForUser(userID string, includeArchived, includeDeleted bool) ([]models.Habit, error) {
	return c.listHabits("user_id = ?", includeArchived, includeDeleted, userID)
}

func (c *Core) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	return c.listHabits("1=1", includeArchived, includeDeleted)
}

func (c *Core) UpdateHabit(habit models.Habit) error {
	if habit.Theme == "" {
		habit.Theme = models.DefaultTheme
	}
	_, err := c.exec(`
		INSERT INTO habits (id, user_id, name, description, emoji, theme, created_at, archived_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			emoji = excluded.emoji,
			theme = excluded.theme,
			archived_at = excluded.archived_at,
			deleted_at = excluded.deleted_at`,
		habit.ID, habit.UserID, habit.Name, habit.Description, habit.Emoji, string(habit.Theme),
		formatTime(habit.CreatedAt), nullTime(habit.ArchivedAt), nullTime(habit.DeletedAt))
	return err
}

func (c *Core) ArchiveHabit(id string) error {
	result, err := c.exec(`
		UPDATE habits SET archived_at = ? WHERE id = ? AND deleted_at IS NULL AND archived_at IS NULL`,
		formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return affected(result, apperrors.NotFound("habit %s not found or already archived", id))
}

func (c *Core) UnarchiveHabit(id string) error {
	result, err := c.exec(`
		UPDATE habits SET archived_at = NULL WHERE id = ? AND deleted_at IS NULL AND archived_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return affected(result, apperrors.NotFound("habit %s not found or not archived", id))
}

func (c *Core) DeleteHabit(id string) error {
	result, err := c.exec(`
		UPDATE habits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return affected(result, apperrors.NotFound("habit %s not found or already deleted", id))
}

func (c *Core) RestoreHabit(id string) error {
	result, err := c.exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return affected(result, apperrors.NotFound("habit %s not found or not deleted", id))
}
