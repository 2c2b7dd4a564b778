package habits

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/render"
	"github.com/julianstephens/dailypunch/internal/streak"
	"github.com/julianstephens/dailypunch/internal/tui"
)

type HabitCmd struct {
	Add        HabitAddCmd        `cmd:"" help:"Add a new habit."`
	List       HabitListCmd       `cmd:"" help:"List habits with their streaks."`
	Rename     HabitRenameCmd     `cmd:"" help:"Rename a habit."`
	Theme      HabitThemeCmd      `cmd:"" help:"Change a habit's colour."`
	Details    HabitDetailsCmd    `cmd:"" help:"Set a habit's description or emoji."`
	Mark       HabitMarkCmd       `cmd:"" help:"Mark a habit as done for a day."`
	Unmark     HabitUnmarkCmd     `cmd:"" help:"Remove a day's completion."`
	Note       HabitNoteCmd       `cmd:"" help:"Attach notes to a completed day."`
	LogNatural HabitLogNaturalCmd `cmd:"" name:"log-natural" help:"Mark days described in plain English, e.g. 'the last three days'."`
	Streak     HabitStreakCmd     `cmd:"" help:"Show a habit's current and longest streak."`
	View       HabitViewCmd       `cmd:"" help:"Show a habit's calendar."`
	Today      HabitTodayCmd      `cmd:"" help:"Show today's habit status."`
	Archive    HabitArchiveCmd    `cmd:"" help:"Archive a habit."`
	Delete     HabitDeleteCmd     `cmd:"" help:"Delete a habit (soft delete)."`
	Restore    HabitRestoreCmd    `cmd:"" help:"Restore a deleted habit."`
}

type HabitAddCmd struct {
	Name  string `arg:"" optional:"" help:"Habit name. Omit on a terminal to fill in a form."`
	Theme string `help:"Colour: orange, blue, green or yellow." default:"ORANGE"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	name, theme := c.Name, c.Theme
	if strings.TrimSpace(name) == "" {
		if !ctx.Interactive() {
			return fmt.Errorf("habit name is required")
		}
		fm := tui.HabitForm{Theme: theme}
		if err := tui.NewHabitForm(&fm).Run(); err != nil {
			return err
		}
		name, theme = fm.Name, fm.Theme
	}

	if _, err := ctx.Habits.FindByName(userID, name); err == nil {
		return fmt.Errorf("habit with name %q already exists", name)
	}
	h, err := ctx.Habits.CreateHabit(userID, name, theme)
	if err != nil {
		return err
	}
	ctx.Printf("Added habit: %s (%s)\n", h.Name, h.Theme)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Show deleted habits instead."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	if c.Deleted {
		deleted, err := ctx.Habits.Deleted(userID)
		if err != nil {
			return err
		}
		if len(deleted) == 0 {
			ctx.Println("No deleted habits.")
		}
		for _, h := range deleted {
			ctx.Printf("%s [DELETED]  %s\n", h.Name, h.ID)
		}
		return nil
	}

	sums, err := ctx.Habits.Summaries(userID, c.Archived)
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		ctx.Println("No habits found.")
		return nil
	}
	for _, s := range sums {
		status := ""
		if s.Habit.ArchivedAt != nil {
			status = " [ARCHIVED]"
		}
		ctx.Printf("%s%s\n", render.SummaryLine(s), status)
	}
	return nil
}

type HabitRenameCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Name  string `arg:"" help:"New name."`
}

func (c *HabitRenameCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	renamed, err := ctx.Habits.Rename(userID, h.ID, c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("Renamed %q to %q\n", h.Name, renamed.Name)
	return nil
}

type HabitThemeCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Theme string `arg:"" help:"orange, blue, green or yellow."`
}

func (c *HabitThemeCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	updated, err := ctx.Habits.SetTheme(userID, h.ID, c.Theme)
	if err != nil {
		return err
	}
	ctx.Printf("%s is now %s\n", updated.Name, render.ThemeStyle(updated.Theme).Render(string(updated.Theme)))
	return nil
}

type HabitDetailsCmd struct {
	Habit       string  `arg:"" help:"Habit id or name."`
	Description *string `help:"Description. Pass an empty string to clear."`
	Emoji       *string `help:"Emoji. Pass an empty string to clear."`
}

func (c *HabitDetailsCmd) Run(ctx *cli.Context) error {
	if c.Description == nil && c.Emoji == nil {
		return fmt.Errorf("nothing to change: pass --description or --emoji")
	}
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if _, err := ctx.Habits.UpdateDetails(userID, h.ID, c.Description, c.Emoji); err != nil {
		return err
	}
	ctx.Printf("Updated %s\n", h.Name)
	return nil
}

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Day as YYYY-MM-DD or '08 Jan 2026' (default: today)."`
	Note  string `help:"Optional note for this day."`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(userID, c.Date)
	if err != nil {
		return err
	}
	added, err := ctx.Habits.Log(userID, h.ID, day)
	if err != nil {
		return err
	}
	if c.Note != "" {
		if err := ctx.Habits.AddNotes(userID, h.ID, day, c.Note); err != nil {
			return err
		}
	}
	if !added {
		ctx.Printf("Habit %q was already marked for %s\n", h.Name, day.Format())
		return nil
	}
	ctx.Printf("Marked habit %q for %s\n", h.Name, day.Format())
	return nil
}

type HabitUnmarkCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Day as YYYY-MM-DD or '08 Jan 2026' (default: today)."`
}

func (c *HabitUnmarkCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(userID, c.Date)
	if err != nil {
		return err
	}
	n, err := ctx.Habits.Unlog(userID, h.ID, day)
	if err != nil {
		return err
	}
	if n == 0 {
		ctx.Printf("Habit %q was not marked for %s\n", h.Name, day.Format())
		return nil
	}
	ctx.Printf("Unmarked habit %q for %s\n", h.Name, day.Format())
	return nil
}

type HabitNoteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Notes string `arg:"" help:"Notes text. An empty string clears them."`
	Date  string `help:"Day as YYYY-MM-DD or '08 Jan 2026' (default: today)."`
}

func (c *HabitNoteCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(userID, c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Habits.AddNotes(userID, h.ID, day, c.Notes); err != nil {
		return err
	}
	ctx.Printf("Saved notes for %q on %s\n", h.Name, day.Format())
	return nil
}

type HabitLogNaturalCmd struct {
	Habit  string   `arg:"" help:"Habit id or name."`
	Phrase []string `arg:"" help:"Description of the days, e.g. 'monday and wednesday'."`
	DryRun bool     `help:"Show the parsed days without saving them."`
}

func (c *HabitLogNaturalCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	parser, err := ctx.DateParser()
	if err != nil {
		return err
	}
	today, err := ctx.Habits.Today(userID)
	if err != nil {
		return err
	}

	days, err := parser.ParseDates(context.Background(), strings.Join(c.Phrase, " "), today)
	if err != nil {
		return err
	}
	for _, d := range days {
		ctx.Printf("  %s\n", d.Format())
	}
	if c.DryRun {
		ctx.Printf("[DryRun] Would mark %d day(s) for %q\n", len(days), h.Name)
		return nil
	}
	added, err := ctx.Habits.LogMany(userID, h.ID, days)
	if err != nil {
		return err
	}
	ctx.Printf("Marked %d new day(s) for %q\n", added, h.Name)
	return nil
}

type HabitStreakCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitStreakCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	sum, err := ctx.Habits.Summary(userID, h.ID)
	if err != nil {
		return err
	}
	ctx.Printf("%s: %s\n", h.Name, render.Streak(sum.Streak))
	if last, ok := streak.Last(sum.Days); ok {
		ctx.Printf("Last completed %s (%d day(s) ago)\n", last.Format(), sum.DaysSinceLast)
	} else {
		ctx.Println("Never completed")
	}
	if sum.Due {
		ctx.Printf("Due: not done in %d+ days\n", ctx.Habits.DueThreshold())
	}
	for _, w := range sum.Warnings {
		ctx.Printf("Warning: %v\n", w)
	}
	return nil
}

type HabitViewCmd struct {
	Habit  string `arg:"" help:"Habit id or name."`
	View   string `help:"week, month or year." default:"month" enum:"week,month,year"`
	Offset int    `help:"Months to shift the month view (negative for the past)."`
}

func (c *HabitViewCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	res, err := streak.ParseResolution(c.View)
	if err != nil {
		return err
	}
	v, err := ctx.Habits.View(userID, h.ID, res, c.Offset)
	if err != nil {
		return err
	}
	ctx.Printf("%s  %s\n\n%s\n", h.Name, render.Title(v), render.View(v, h.Theme))
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	sums, err := ctx.Habits.Summaries(userID, false)
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Printf("Habits for %s\n\n", sums[0].Today.Format())
	for _, s := range sums {
		mark := "[ ]"
		if s.CompletedOn(s.Today) {
			mark = "[x]"
		}
		ctx.Printf("%s %s\n", mark, s.Habit.Name)
	}
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Undo  bool   `help:"Unarchive instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if c.Undo {
		if err := ctx.Habits.Unarchive(userID, h.ID); err != nil {
			return err
		}
		ctx.Printf("Unarchived habit: %s\n", h.Name)
		return nil
	}
	if err := ctx.Habits.Archive(userID, h.ID); err != nil {
		return err
	}
	ctx.Printf("Archived habit: %s\n", h.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	userID, h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Habits.Delete(userID, h.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s (restore with 'dailypunch habit restore %s')\n", h.Name, h.ID)
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Id or name of a deleted habit."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	deleted, err := ctx.Habits.Deleted(userID)
	if err != nil {
		return err
	}
	var target *models.Habit
	for i, h := range deleted {
		if h.ID == c.Habit || strings.EqualFold(h.Name, c.Habit) {
			target = &deleted[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no deleted habit matches %q", c.Habit)
	}
	if err := ctx.Habits.Restore(userID, target.ID); err != nil {
		return err
	}
	ctx.Printf("Restored habit: %s\n", target.Name)
	return nil
}
