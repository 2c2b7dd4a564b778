package models

import (
	"strings"
	"time"
)

type Theme string

const (
	ThemeOrange Theme = "ORANGE"
	ThemeBlue   Theme = "BLUE"
	ThemeGreen  Theme = "GREEN"
	ThemeYellow Theme = "YELLOW"

	DefaultTheme = ThemeOrange
)

// Themes lists the accepted habit colours in display order.
var Themes = []Theme{ThemeOrange, ThemeBlue, ThemeGreen, ThemeYellow}

// ParseTheme normalizes s and reports whether it names a known theme.
func ParseTheme(s string) (Theme, bool) {
	t := Theme(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Themes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// ThemeOrDefault returns the theme named by s, falling back to DefaultTheme.
func ThemeOrDefault(s string) Theme {
	if t, ok := ParseTheme(s); ok {
		return t
	}
	return DefaultTheme
}

type Habit struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Emoji       string     `json:"emoji,omitempty"`
	Theme       Theme      `json:"theme"`
	CreatedAt   time.Time  `json:"created"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// IsActive reports whether the habit is neither archived nor deleted.
func (h Habit) IsActive() bool {
	return h.ArchivedAt == nil && h.DeletedAt == nil
}

// Completion marks a habit as done on Day. Day holds the stored text,
// which may be either the legacy or the compact spelling.
type Completion struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habitId"`
	Day       string    `json:"day"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
