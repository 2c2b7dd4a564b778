package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/dailypunch/internal/dates"
	"github.com/julianstephens/dailypunch/internal/models"
)

// ConflictType names a kind of problem found in stored completions
type ConflictType string

const (
	ConflictMalformedDate    ConflictType = "malformed_date"
	ConflictLegacyFormat     ConflictType = "legacy_format"
	ConflictDuplicateDay     ConflictType = "duplicate_day"
	ConflictOrphanCompletion ConflictType = "orphan_completion"
)

// Conflict is one problem with one or more completion rows
type Conflict struct {
	Type          ConflictType `json:"type"`
	Description   string       `json:"description"`
	HabitID       string       `json:"habitId"`
	HabitName     string       `json:"habitName,omitempty"`
	Day           string       `json:"day,omitempty"`
	CompletionIDs []string     `json:"completionIds"`
}

type Report struct {
	Conflicts []Conflict `json:"conflicts"`
}

func (r Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Count returns the number of conflicts of type t
func (r Report) Count(t ConflictType) int {
	n := 0
	for _, c := range r.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Fixable reports whether `dates normalize` would resolve every conflict.
func (r Report) Fixable() bool {
	for _, c := range r.Conflicts {
		if c.Type != ConflictLegacyFormat && c.Type != ConflictDuplicateDay {
			return false
		}
	}
	return true
}

// FormatReport returns a human-readable report of all conflicts
func (r Report) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}
	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// ValidateCompletions checks completion rows against the habits they
// belong to. habits should include archived and deleted habits so that
// only truly dangling rows are reported as orphans.
func ValidateCompletions(habits []models.Habit, completions []models.Completion) Report {
	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
	}

	type key struct {
		habitID string
		day     dates.Date
	}
	groups := make(map[key][]models.Completion)
	var order []key

	var report Report
	for _, c := range completions {
		name, known := names[c.HabitID]
		if !known {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:          ConflictOrphanCompletion,
				Description:   fmt.Sprintf("Completion %s on %q references missing habit %s", c.ID, c.Day, c.HabitID),
				HabitID:       c.HabitID,
				Day:           c.Day,
				CompletionIDs: []string{c.ID},
			})
			continue
		}

		d, err := dates.Parse(c.Day)
		if err != nil {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:          ConflictMalformedDate,
				Description:   fmt.Sprintf("Habit %q has an unreadable day %q", name, c.Day),
				HabitID:       c.HabitID,
				HabitName:     name,
				Day:           c.Day,
				CompletionIDs: []string{c.ID},
			})
			continue
		}
		if !dates.IsCanonical(c.Day) {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:          ConflictLegacyFormat,
				Description:   fmt.Sprintf("Habit %q stores %q instead of %q", name, c.Day, d.Format()),
				HabitID:       c.HabitID,
				HabitName:     name,
				Day:           c.Day,
				CompletionIDs: []string{c.ID},
			})
		}

		k := key{c.HabitID, d}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c)
	}

	for _, k := range order {
		rows := groups[k]
		if len(rows) < 2 {
			continue
		}
		ids := make([]string, len(rows))
		spellings := make([]string, len(rows))
		for i, r := range rows {
			ids[i] = r.ID
			spellings[i] = fmt.Sprintf("%q", r.Day)
		}
		report.Conflicts = append(report.Conflicts, Conflict{
			Type:          ConflictDuplicateDay,
			Description:   fmt.Sprintf("Habit %q is completed %d times on %s (%s)", names[k.habitID], len(rows), k.day.Format(), strings.Join(spellings, ", ")),
			HabitID:       k.habitID,
			HabitName:     names[k.habitID],
			Day:           k.day.Format(),
			CompletionIDs: ids,
		})
	}

	sort.SliceStable(report.Conflicts, func(i, j int) bool {
		return report.Conflicts[i].Type < report.Conflicts[j].Type
	})
	return report
}
