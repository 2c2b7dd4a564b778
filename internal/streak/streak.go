// Package streak derives streaks, due status and calendar views from a
// habit's completion days. Everything here is pure: the caller supplies
// "today" and the result depends only on the inputs.
package streak

import (
	"sort"

	"github.com/julianstephens/dailypunch/internal/dates"
)

// DefaultDueThreshold is the number of days without a completion after
// which a habit counts as due.
const DefaultDueThreshold = 2

// streakBreakGap is the gap from today at which the current run is
// considered broken. A gap of one day keeps it alive so the user can
// still complete today.
const streakBreakGap = 2

// Result holds the derived streak counts for one habit.
type Result struct {
	Current int `json:"currentStreak"`
	Longest int `json:"longestStreak"`
}

// Snapshot is a habit's completion days read fresh from storage.
type Snapshot struct {
	HabitID  string
	Days     []dates.Date
	Warnings []error
}

// NewSnapshot parses every stored day string. Unreadable rows are left out
// of Days and reported in Warnings.
func NewSnapshot(habitID string, raw []string) Snapshot {
	days, errs := dates.ParseAll(raw)
	return Snapshot{HabitID: habitID, Days: days, Warnings: errs}
}

// Compute returns the current and longest consecutive-day runs.
func Compute(days []dates.Date, now dates.Date) Result {
	if len(days) == 0 {
		return Result{}
	}

	sorted := sortedCopy(days)

	run, longest := 1, 1
	for i := 1; i < len(sorted); i++ {
		switch delta := dates.DaysBetween(sorted[i-1], sorted[i]); {
		case delta == 1:
			run++
		case delta > 1:
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := run
	if dates.DaysBetween(sorted[len(sorted)-1], now) >= streakBreakGap {
		current = 0
	}

	return Result{Current: current, Longest: longest}
}

// Last returns the most recent completion day.
func Last(days []dates.Date) (dates.Date, bool) {
	if len(days) == 0 {
		return dates.Date{}, false
	}
	last := days[0]
	for _, d := range days[1:] {
		if d.After(last) {
			last = d
		}
	}
	return last, true
}

// IsDue reports whether the habit has gone at least thresholdDays without
// a completion. A habit that was never completed is always due.
func IsDue(days []dates.Date, now dates.Date, thresholdDays int) bool {
	last, ok := Last(days)
	if !ok {
		return true
	}
	return dates.DaysBetween(last, now) >= thresholdDays
}

// DaysSinceLast returns the whole days since the most recent completion,
// or -1 if there are none.
func DaysSinceLast(days []dates.Date, now dates.Date) int {
	last, ok := Last(days)
	if !ok {
		return -1
	}
	return dates.DaysBetween(last, now)
}

func sortedCopy(days []dates.Date) []dates.Date {
	out := make([]dates.Date, len(days))
	copy(out, days)
	sort.Slice(out, func(i, j int) bool {
		return out[i].SortKey() < out[j].SortKey()
	})
	return out
}

// Set is a membership index over completion days.
type Set map[dates.Date]struct{}

func NewSet(days []dates.Date) Set {
	s := make(Set, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

func (s Set) Contains(d dates.Date) bool {
	_, ok := s[d]
	return ok
}
