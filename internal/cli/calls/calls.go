package calls

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/voice"
)

type CallCmd struct {
	Now     CallNowCmd     `cmd:"" help:"Place a check-in call to the current user."`
	History CallHistoryCmd `cmd:"" help:"Show recent calls."`
	Check   CallCheckCmd   `cmd:"" help:"Place any calls scheduled for this minute."`
	Script  CallScriptCmd  `cmd:"" help:"Print what the check-in call would say."`
	Preview CallPreviewCmd `cmd:"" help:"Render text with the configured voice to an MP3 file."`
}

type CallNowCmd struct{}

func (c *CallNowCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	id, err := ctx.Calls().InitiateCall(context.Background(), userID)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Call started (log %s)\n", id)
	return nil
}

type CallHistoryCmd struct{}

func (c *CallHistoryCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	logs, err := ctx.Calls().History(userID)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		ctx.Println("No calls yet.")
		return nil
	}
	for _, l := range logs {
		duration := "-"
		if l.DurationSecs != nil {
			duration = (time.Duration(*l.DurationSecs) * time.Second).String()
		}
		ctx.Printf("%s  %-9s  %s\n", l.StartedAt.Local().Format("2006-01-02 15:04"), l.Status, duration)
	}
	return nil
}

type CallCheckCmd struct{}

func (c *CallCheckCmd) Run(ctx *cli.Context) error {
	n, err := ctx.Calls().CheckScheduled(context.Background(), time.Now())
	if err != nil {
		return err
	}
	ctx.Printf("Started %d scheduled call(s).\n", n)
	return nil
}

type CallScriptCmd struct {
	Name string `help:"Name to greet."`
}

func (c *CallScriptCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	statuses, err := ctx.Calls().Statuses(userID)
	if err != nil {
		return err
	}
	today, err := ctx.Habits.Today(userID)
	if err != nil {
		return err
	}
	ctx.Println(voice.CheckInMessage(statuses, c.Name, today))
	return nil
}

type CallPreviewCmd struct {
	Text string `arg:"" help:"Text to speak."`
	Out  string `short:"o" default:"preview.mp3" help:"Output file."`
}

func (c *CallPreviewCmd) Run(ctx *cli.Context) error {
	audio, err := ctx.Calls().Preview(context.Background(), c.Text)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Out, audio, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Out, err)
	}
	ctx.Printf("Wrote %d bytes to %s\n", len(audio), c.Out)
	return nil
}
