// Package render draws habits, streaks and calendar views for the
// terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/streak"
)

const (
	FilledCell      = "■"
	EmptyCell       = "□"
	placeholderCell = " "
)

var (
	themeColors = map[models.Theme]lipgloss.Color{
		models.ThemeOrange: lipgloss.Color("208"),
		models.ThemeBlue:   lipgloss.Color("33"),
		models.ThemeGreen:  lipgloss.Color("42"),
		models.ThemeYellow: lipgloss.Color("220"),
	}

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
)

// ThemeStyle returns the foreground style for a habit theme.
func ThemeStyle(t models.Theme) lipgloss.Style {
	c, ok := themeColors[t]
	if !ok {
		c = themeColors[models.DefaultTheme]
	}
	return lipgloss.NewStyle().Foreground(c)
}

func cell(s streak.Slot, filled lipgloss.Style) string {
	switch {
	case s.IsPlaceholder():
		return placeholderCell
	case s.Completed:
		return filled.Render(FilledCell)
	default:
		return dimStyle.Render(EmptyCell)
	}
}

// Title describes the span a view covers.
func Title(v streak.View) string {
	switch v.Resolution {
	case streak.Month:
		return v.Start.Time().Format("January 2006")
	case streak.Week:
		return "Week of " + v.Start.Format()
	default:
		return v.Start.Format() + " to " + v.End.Format()
	}
}

// View draws a calendar view. Week and month views are Sunday-first rows
// of seven; the year view is drawn column-major with one column per
// seven days.
func View(v streak.View, theme models.Theme) string {
	filled := ThemeStyle(theme)
	var b strings.Builder
	b.WriteString(headerStyle.Render(Title(v)))
	b.WriteString("\n")

	if v.Resolution == streak.Year {
		cols := v.Columns()
		for row := 0; row < 7; row++ {
			cells := make([]string, 0, len(cols))
			for _, col := range cols {
				if row < len(col) {
					cells = append(cells, cell(col[row], filled))
				}
			}
			b.WriteString(strings.Join(cells, ""))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(labelStyle.Render(strings.Join(streak.WeekdayHeaders(), " ")))
		b.WriteString("\n")
		for _, week := range v.Columns() {
			cells := make([]string, len(week))
			for i, s := range week {
				cells[i] = cell(s, filled) + " "
			}
			b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
			b.WriteString("\n")
		}
	}

	b.WriteString(labelStyle.Render(fmt.Sprintf("%d completed", v.Completed)))
	return b.String()
}

// Streak formats current and longest streak counts.
func Streak(r streak.Result) string {
	return fmt.Sprintf("current %s · longest %s", plural(r.Current, "day"), plural(r.Longest, "day"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// SummaryLine is the one-line listing of a habit.
func SummaryLine(s habits.Summary) string {
	mark := dimStyle.Render(EmptyCell)
	if s.CompletedOn(s.Today) {
		mark = ThemeStyle(s.Habit.Theme).Render(FilledCell)
	}
	name := s.Habit.Name
	if s.Habit.Emoji != "" {
		name = s.Habit.Emoji + " " + name
	}

	line := fmt.Sprintf("%s %s  %s", mark, name, labelStyle.Render(Streak(s.Streak)))
	if s.Habit.ArchivedAt != nil {
		line += labelStyle.Render("  [archived]")
	}
	if s.Due && s.Habit.IsActive() {
		line += "  " + dueStyle.Render("due")
	}
	if len(s.Warnings) > 0 {
		line += "  " + warningStyle.Render(plural(len(s.Warnings), "unreadable day"))
	}
	return line
}
