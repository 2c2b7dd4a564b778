package habits

import (
	"github.com/julianstephens/dailypunch/internal/dates"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/streak"
)

// Summary is a habit together with everything derived from its
// completions as of Today.
type Summary struct {
	Habit         models.Habit
	Completions   []models.Completion
	Days          []dates.Date
	Streak        streak.Result
	Due           bool
	DaysSinceLast int
	Today         dates.Date
	Warnings      []error
}

// CompletedOn reports whether the summary has a completion on day.
func (s Summary) CompletedOn(day dates.Date) bool {
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

func (s *Service) summarize(h models.Habit, completions []models.Completion, today dates.Date) Summary {
	snap := snapshotOf(h.ID, completions)
	return Summary{
		Habit:         h,
		Completions:   completions,
		Days:          snap.Days,
		Streak:        streak.Compute(snap.Days, today),
		Due:           streak.IsDue(snap.Days, today, s.dueThreshold),
		DaysSinceLast: streak.DaysSinceLast(snap.Days, today),
		Today:         today,
		Warnings:      snap.Warnings,
	}
}

// Summaries returns one Summary per habit of the user, in creation order.
func (s *Service) Summaries(userID string, includeArchived bool) ([]Summary, error) {
	habits, err := s.store.GetHabitsForUser(userID, includeArchived, false)
	if err != nil {
		return nil, err
	}
	completions, err := s.store.GetCompletionsForUser(userID)
	if err != nil {
		return nil, err
	}
	today, err := s.Today(userID)
	if err != nil {
		return nil, err
	}

	byHabit := make(map[string][]models.Completion, len(habits))
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}

	out := make([]Summary, 0, len(habits))
	for _, h := range habits {
		out = append(out, s.summarize(h, byHabit[h.ID], today))
	}
	return out, nil
}

// Summary returns the Summary of one habit.
func (s *Service) Summary(userID, habitID string) (Summary, error) {
	h, err := s.owned(userID, habitID)
	if err != nil {
		return Summary{}, err
	}
	completions, err := s.store.GetCompletionsForHabit(habitID)
	if err != nil {
		return Summary{}, err
	}
	today, err := s.Today(userID)
	if err != nil {
		return Summary{}, err
	}
	return s.summarize(h, completions, today), nil
}

// View buckets the habit's completions into a calendar. offset shifts the
// month view by whole months and is ignored otherwise.
func (s *Service) View(userID, habitID string, resolution streak.Resolution, offset int) (streak.View, error) {
	sum, err := s.Summary(userID, habitID)
	if err != nil {
		return streak.View{}, err
	}
	return streak.ForView(sum.Days, sum.Today, resolution, offset)
}

// DueHabits returns the active habits that have gone DueThreshold days
// without a completion.
func (s *Service) DueHabits(userID string) ([]models.Habit, error) {
	sums, err := s.Summaries(userID, false)
	if err != nil {
		return nil, err
	}
	var due []models.Habit
	for _, sum := range sums {
		if sum.Due {
			due = append(due, sum.Habit)
		}
	}
	return due, nil
}
