package push

import (
	"context"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/keyring"
	"github.com/julianstephens/dailypunch/internal/notifier"
	"github.com/julianstephens/dailypunch/internal/reminder"
)

type PushCmd struct {
	Keys          PushKeysCmd          `cmd:"" help:"Generate a VAPID key pair."`
	Notify        PushNotifyCmd        `cmd:"" help:"Send due-habit reminders now."`
	Test          PushTestCmd          `cmd:"" help:"Send a test notification to your browsers."`
	Subscriptions PushSubscriptionsCmd `cmd:"" help:"List your push subscriptions."`
}

type PushKeysCmd struct {
	Store bool `help:"Save the private key in the OS keyring instead of printing it."`
}

func (c *PushKeysCmd) Run(ctx *cli.Context) error {
	pub, priv, err := notifier.GenerateVAPIDKeys()
	if err != nil {
		return err
	}

	ctx.Printf("Public key:  %s\n", pub)
	if c.Store {
		if err := keyring.Set(constants.KeyringVAPID, priv); err != nil {
			return err
		}
		ctx.Printf("✓ Private key stored in OS keyring as %s\n", constants.KeyringVAPID)
	} else {
		ctx.Printf("Private key: %s\n", priv)
	}
	ctx.Printf("\nSet push-vapid-public-key in your config (or %sPUSH_VAPID_PUBLIC_KEY).\n", constants.EnvPrefix)
	return nil
}

// sender picks the recorder for dry runs and web push otherwise.
func sender(ctx *cli.Context, dryRun bool) (notifier.Sender, error) {
	if dryRun {
		return notifier.NewRecorder(ctx.Out), nil
	}
	return ctx.WebPush()
}

type PushNotifyCmd struct {
	All    bool `help:"Check every subscribed user, not just --user."`
	DryRun bool `help:"Print notifications instead of sending them."`
}

func (c *PushNotifyCmd) Run(ctx *cli.Context) error {
	s, err := sender(ctx, c.DryRun)
	if err != nil {
		return err
	}
	job := reminder.NewJob(ctx.Habits, s)

	var res reminder.Result
	if c.All {
		res, err = job.Run(context.Background())
	} else {
		userID, uerr := ctx.UserID()
		if uerr != nil {
			return uerr
		}
		res, err = job.NotifyUser(context.Background(), userID)
	}
	if err != nil {
		return err
	}
	printResult(ctx, res)
	return nil
}

type PushTestCmd struct {
	Message string `arg:"" optional:"" help:"Notification body."`
	DryRun  bool   `help:"Print the notification instead of sending it."`
}

func (c *PushTestCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	s, err := sender(ctx, c.DryRun)
	if err != nil {
		return err
	}
	res, err := reminder.NewJob(ctx.Habits, s).Broadcast(context.Background(), userID, notifier.TestMessage(c.Message))
	if err != nil {
		return err
	}
	printResult(ctx, res)
	return nil
}

func printResult(ctx *cli.Context, res reminder.Result) {
	ctx.Printf("Users checked: %d  Sent: %d  Failed: %d\n", res.UsersChecked, res.NotificationsSent, res.Failures)
	if len(res.DueHabits) > 0 {
		ctx.Printf("Due: %v\n", res.DueHabits)
	}
}

type PushSubscriptionsCmd struct{}

func (c *PushSubscriptionsCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	subs, err := ctx.Store.GetPushSubscriptions(userID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		ctx.Println("No push subscriptions.")
		return nil
	}
	for _, s := range subs {
		ctx.Printf("%s  %s\n", s.CreatedAt.Format("2006-01-02"), s.Endpoint)
	}
	return nil
}
