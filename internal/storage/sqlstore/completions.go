package sqlstore

import (
	"time"

	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/models"
)

const completionColumns = "c.id, c.habit_id, c.day, c.notes, c.created_at, c.updated_at"

func scanCompletion(row rowScanner) (models.Completion, error) {
	var e models.Completion
	var createdAt, updatedAt string
	if err := row.Scan(&e.ID, &e.HabitID, &e.Day, &e.Notes, &createdAt, &updatedAt); err != nil {
		return models.Completion{}, err
	}
	var err error
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Completion{}, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Completion{}, err
	}
	return e, nil
}

func (c *Core) listCompletions(query string, args ...any) ([]models.Completion, error) {
	rows, err := c.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Completion
	for rows.Next() {
		e, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (c *Core) AddCompletion(e models.Completion) (bool, error) {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	result, err := c.exec(`
		INSERT INTO habit_completions (id, habit_id, day, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING`,
		e.ID, e.HabitID, e.Day, e.Notes, formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (c *Core) GetCompletionsForHabit(habitID string) ([]models.Completion, error) {
	return c.listCompletions(`SELECT `+completionColumns+` FROM habit_completions c
		WHERE c.habit_id = ? ORDER BY c.created_at`, habitID)
}

// GetCompletionsForUser returns completions of the user's habits that are
// not deleted.
func (c *Core) GetCompletionsForUser(userID string) ([]models.Completion, error) {
	return c.listCompletions(`SELECT `+completionColumns+` FROM habit_completions c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.user_id = ? AND h.deleted_at IS NULL
		ORDER BY c.created_at`, userID)
}

func (c *Core) GetAllCompletions() ([]models.Completion, error) {
	return c.listCompletions(`SELECT ` + completionColumns + ` FROM habit_completions c ORDER BY c.habit_id, c.created_at`)
}

// UpdateCompletionNotes changes only the notes of an existing completion.
func (c *Core) UpdateCompletionNotes(habitID, day, notes string) error {
	result, err := c.exec(`
		UPDATE habit_completions SET notes = ?, updated_at = ? WHERE habit_id = ? AND day = ?`,
		notes, formatTime(time.Now()), habitID, day)
	if err != nil {
		return err
	}
	return affected(result, apperrors.NotFound("no completion for habit %s on %s", habitID, day))
}

func (c *Core) UpdateCompletionDay(id, day string) error {
	result, err := c.exec(`
		UPDATE habit_completions SET day = ?, updated_at = ? WHERE id = ?`,
		day, formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return affected(result, apperrors.NotFound("completion %s", id))
}

// DeleteCompletion removes the completion if present. Deleting a missing
// completion is not an error.
func (c *Core) DeleteCompletion(habitID, day string) error {
	_, err := c.exec(`DELETE FROM habit_completions WHERE habit_id = ? AND day = ?`, habitID, day)
	return err
}

func (c *Core) DeleteCompletionByID(id string) error {
	_, err := c.exec(`DELETE FROM habit_completions WHERE id = ?`, id)
	return err
}
