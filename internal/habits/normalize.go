package habits

import (
	"github.com/julianstephens/dailypunch/internal/dates"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/models"
)

// NormalizeReport counts what NormalizeDays did or would do.
type NormalizeReport struct {
	Scanned   int
	Rewritten int
	Merged    int
	Malformed int
}

// NormalizeDays rewrites every legacy completion day to the compact form.
// When one habit holds several rows for the same calendar day, the compact
// row (or the oldest one) survives and the others are deleted, carrying
// their notes over if the survivor has none. Unreadable rows are counted
// and left untouched. With dryRun nothing is written.
func (s *Service) NormalizeDays(dryRun bool) (NormalizeReport, error) {
	all, err := s.store.GetAllCompletions()
	if err != nil {
		return NormalizeReport{}, err
	}

	type key struct {
		habitID string
		day     dates.Date
	}
	groups := make(map[key][]models.Completion)
	var order []key

	report := NormalizeReport{Scanned: len(all)}
	for _, c := range all {
		d, err := dates.Parse(c.Day)
		if err != nil {
			report.Malformed++
			logger.Warn("Leaving unreadable completion day", "completion", c.ID, "day", c.Day)
			continue
		}
		k := key{c.HabitID, d}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c)
	}

	for _, k := range order {
		rows := groups[k]
		canonical := k.day.Format()

		keep := 0
		for i, c := range rows {
			if c.Day == canonical {
				keep = i
				break
			}
		}
		survivor := rows[keep]

		notes := survivor.Notes
		for i, c := range rows {
			if i == keep {
				continue
			}
			report.Merged++
			if notes == "" && c.Notes != "" {
				notes = c.Notes
			}
			if !dryRun {
				if err := s.store.DeleteCompletionByID(c.ID); err != nil {
					return report, err
				}
			}
		}

		if survivor.Day != canonical {
			report.Rewritten++
			if !dryRun {
				if err := s.store.UpdateCompletionDay(survivor.ID, canonical); err != nil {
					return report, err
				}
			}
		}
		if notes != survivor.Notes && !dryRun {
			if err := s.store.UpdateCompletionNotes(k.habitID, canonical, notes); err != nil {
				return report, err
			}
		}
	}

	logger.Info("Normalized completion days",
		"scanned", report.Scanned, "rewritten", report.Rewritten,
		"merged", report.Merged, "malformed", report.Malformed, "dryRun", dryRun)
	return report, nil
}
