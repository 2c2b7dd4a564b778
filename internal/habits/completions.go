package habits

import (
	"github.com/google/uuid"

	"github.com/julianstephens/dailypunch/internal/dates"
	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/streak"
)

// matching returns the stored completions whose text parses to day.
// Unreadable rows never match.
func matching(completions []models.Completion, day dates.Date) []models.Completion {
	var out []models.Completion
	for _, c := range completions {
		d, err := dates.Parse(c.Day)
		if err != nil {
			continue
		}
		if d == day {
			out = append(out, c)
		}
	}
	return out
}

// Log marks day as completed. It reports false when the day was already
// completed under either spelling.
func (s *Service) Log(userID, habitID string, day dates.Date) (bool, error) {
	if _, err := s.owned(userID, habitID); err != nil {
		return false, err
	}
	existing, err := s.store.GetCompletionsForHabit(habitID)
	if err != nil {
		return false, err
	}
	return s.log(habitID, existing, day)
}

func (s *Service) log(habitID string, existing []models.Completion, day dates.Date) (bool, error) {
	if len(matching(existing, day)) > 0 {
		return false, nil
	}
	now := s.now()
	return s.store.AddCompletion(models.Completion{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		Day:       day.Format(),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// LogMany logs each day and returns how many were newly added.
func (s *Service) LogMany(userID, habitID string, days []dates.Date) (int, error) {
	if _, err := s.owned(userID, habitID); err != nil {
		return 0, err
	}
	existing, err := s.store.GetCompletionsForHabit(habitID)
	if err != nil {
		return 0, err
	}

	added := 0
	seen := make(map[dates.Date]bool, len(days))
	for _, day := range days {
		if seen[day] {
			continue
		}
		seen[day] = true
		ok, err := s.log(habitID, existing, day)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Unlog removes every stored spelling of day and returns how many rows
// went. Unlogging a day that is not completed is not an error.
func (s *Service) Unlog(userID, habitID string, day dates.Date) (int, error) {
	if _, err := s.owned(userID, habitID); err != nil {
		return 0, err
	}
	existing, err := s.store.GetCompletionsForHabit(habitID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, c := range matching(existing, day) {
		if err := s.store.DeleteCompletionByID(c.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// AddNotes sets the notes of an existing completion. It never creates or
// removes a completion.
func (s *Service) AddNotes(userID, habitID string, day dates.Date, notes string) error {
	if _, err := s.owned(userID, habitID); err != nil {
		return err
	}
	existing, err := s.store.GetCompletionsForHabit(habitID)
	if err != nil {
		return err
	}
	found := matching(existing, day)
	if len(found) == 0 {
		return apperrors.NotFound("habit %s has no completion on %s", habitID, day.Format())
	}
	for _, c := range found {
		if err := s.store.UpdateCompletionNotes(habitID, c.Day, notes); err != nil {
			return err
		}
	}
	return nil
}

// Completion returns the completion stored for day, if any.
func (s *Service) Completion(userID, habitID string, day dates.Date) (models.Completion, bool, error) {
	if _, err := s.owned(userID, habitID); err != nil {
		return models.Completion{}, false, err
	}
	existing, err := s.store.GetCompletionsForHabit(habitID)
	if err != nil {
		return models.Completion{}, false, err
	}
	found := matching(existing, day)
	if len(found) == 0 {
		return models.Completion{}, false, nil
	}
	return found[0], true, nil
}

// Snapshot reads the habit's completion days fresh from storage.
func (s *Service) Snapshot(habitID string) (streak.Snapshot, error) {
	completions, err := s.store.GetCompletionsForHabit(habitID)
	if err != nil {
		return streak.Snapshot{}, err
	}
	return snapshotOf(habitID, completions), nil
}

func snapshotOf(habitID string, completions []models.Completion) streak.Snapshot {
	raw := make([]string, len(completions))
	for i, c := range completions {
		raw[i] = c.Day
	}
	snap := streak.NewSnapshot(habitID, raw)
	for _, w := range snap.Warnings {
		logger.Warn("Skipping unreadable completion day", "habit", habitID, "error", w)
	}
	return snap
}
