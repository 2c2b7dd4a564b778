package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailypunch/internal/models"
)

type HabitForm struct {
	Name  string
	Theme string
}

// NewHabitForm asks for a habit name and theme.
func NewHabitForm(fm *HabitForm) *huh.Form {
	if fm.Theme == "" {
		fm.Theme = string(models.DefaultTheme)
	}
	options := make([]huh.Option[string], len(models.Themes))
	for i, t := range models.Themes {
		options[i] = huh.NewOption(strings.ToLower(string(t)), string(t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Theme").
				Options(options...).
				Value(&fm.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}
