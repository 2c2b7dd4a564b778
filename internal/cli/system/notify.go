package system

import (
	"context"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/notifier"
)

// desktopNotifier is satisfied by notifier.Tray.
type desktopNotifier interface {
	Notify(ctx context.Context, msg notifier.Message) error
}

var newDesktopNotifier = func() desktopNotifier { return notifier.NewTray() }

// NotifyCmd is run from cron or a launch agent to show due habits through
// the tray app.
type NotifyCmd struct {
	DryRun bool `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	due, err := ctx.Habits.DueHabits(userID)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		if c.DryRun {
			ctx.Println("No habits due.")
		}
		return nil
	}

	msg := notifier.DueHabitsMessage(habitNames(due), ctx.Habits.DueThreshold())
	if c.DryRun {
		ctx.Printf("[DryRun] %s\n", msg.Text())
		return nil
	}

	if err := newDesktopNotifier().Notify(context.Background(), msg); err != nil {
		logger.Warn("Failed to send tray notification", "error", err)
		return err
	}
	return nil
}

func habitNames(hs []models.Habit) []string {
	names := make([]string, len(hs))
	for i, h := range hs {
		names[i] = h.Name
	}
	return names
}
