package streak

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dailypunch/internal/dates"
)

// ErrUnknownResolution is returned for a view name other than week, month or year.
var ErrUnknownResolution = errors.New("unknown calendar resolution")

// Resolution selects the span of a calendar view.
type Resolution string

const (
	Week  Resolution = "week"
	Month Resolution = "month"
	Year  Resolution = "year"
)

// YearSlots is the number of days shown in the year view.
const YearSlots = 52 * 7

// ParseResolution accepts week, month or year in any case.
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(strings.ToLower(strings.TrimSpace(s))); r {
	case Week, Month, Year:
		return r, nil
	case "":
		return Week, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownResolution, s)
	}
}

// Slot is one cell of a calendar view. Date is nil for leading padding.
type Slot struct {
	Date      *dates.Date `json:"date"`
	Completed bool        `json:"completed"`
}

// IsPlaceholder reports whether the slot only pads the grid.
func (s Slot) IsPlaceholder() bool {
	return s.Date == nil
}

// View is a bucketed calendar over a date range.
type View struct {
	Resolution Resolution `json:"resolution"`
	Start      dates.Date `json:"start"`
	End        dates.Date `json:"end"`
	Slots      []Slot     `json:"slots"`
	Completed  int        `json:"completedCount"`
}

// Columns splits a view into week columns of seven slots each. The last
// column is shorter when the slot count is not a multiple of seven.
func (v View) Columns() [][]Slot {
	var cols [][]Slot
	for i := 0; i < len(v.Slots); i += 7 {
		end := i + 7
		if end > len(v.Slots) {
			end = len(v.Slots)
		}
		cols = append(cols, v.Slots[i:end])
	}
	return cols
}

// ForView dispatches to the bucketing for resolution. monthOffset is only
// used by the month view.
func ForView(days []dates.Date, now dates.Date, resolution Resolution, monthOffset int) (View, error) {
	switch resolution {
	case Week:
		return WeekView(days, now), nil
	case Month:
		return MonthView(days, now, monthOffset), nil
	case Year:
		return YearView(days, now), nil
	default:
		return View{}, fmt.Errorf("%w: %q", ErrUnknownResolution, resolution)
	}
}

// WeekView covers the seven days from the Sunday on or before now.
func WeekView(days []dates.Date, now dates.Date) View {
	start := now.AddDays(-int(now.Weekday()))
	return span(Week, NewSet(days), start, 7, 0)
}

// MonthView covers every day of the month offset months from now's month,
// left-padded so the first day lands in its weekday column of a
// Sunday-first grid.
func MonthView(days []dates.Date, now dates.Date, offset int) View {
	first := now.FirstOfMonth().AddMonths(offset)
	pad := int(first.Weekday())
	return span(Month, NewSet(days), first, first.DaysInMonth(), pad)
}

// YearView covers exactly 364 days ending today, oldest first. Slot i is
// now-363+i, so reading the slots in groups of seven gives the
// column-major week grid.
func YearView(days []dates.Date, now dates.Date) View {
	start := now.AddDays(-(YearSlots - 1))
	return span(Year, NewSet(days), start, YearSlots, 0)
}

func span(res Resolution, set Set, start dates.Date, n, pad int) View {
	v := View{
		Resolution: res,
		Start:      start,
		End:        start.AddDays(n - 1),
		Slots:      make([]Slot, 0, pad+n),
	}
	for i := 0; i < pad; i++ {
		v.Slots = append(v.Slots, Slot{})
	}
	for i := 0; i < n; i++ {
		d := start.AddDays(i)
		done := set.Contains(d)
		if done {
			v.Completed++
		}
		v.Slots = append(v.Slots, Slot{Date: &d, Completed: done})
	}
	return v
}

// WeekdayHeaders returns the Sunday-first column labels.
func WeekdayHeaders() []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = time.Weekday(i).String()[:2]
	}
	return out
}
