package system

import (
	"context"
	"net/http"
	"time"

	"github.com/julianstephens/dailypunch/internal/api"
	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/reminder"
	"github.com/julianstephens/dailypunch/internal/scheduler"
)

// ServeCmd runs the HTTP API plus the background call and reminder loops.
type ServeCmd struct {
	ReminderInterval time.Duration `name:"reminder-interval" default:"0s" help:"Send due-habit push reminders on this interval (0 disables; use /cron/due-habits instead)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	deps := api.Deps{
		Habits:         ctx.Habits,
		CronSecret:     cfg.CronSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		Calls:          ctx.Calls(),
	}

	if parser, err := ctx.DateParser(); err != nil {
		logger.Warn("Natural language logging disabled", "reason", err)
	} else {
		deps.Parser = parser
	}

	if push, err := ctx.WebPush(); err != nil {
		logger.Warn("Web push disabled", "reason", err)
	} else {
		deps.Sender = push
		deps.VAPIDPublicKey = push.PublicKey()
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go scheduler.Every(runCtx, "scheduled-calls", cfg.CallPollInterval, func(ctx context.Context, now time.Time) error {
		_, err := deps.Calls.CheckScheduled(ctx, now)
		return err
	})

	if c.ReminderInterval > 0 && deps.Sender != nil {
		job := reminder.NewJob(ctx.Habits, deps.Sender)
		go scheduler.Every(runCtx, "due-habit-reminders", c.ReminderInterval, func(ctx context.Context, _ time.Time) error {
			_, err := job.Run(ctx)
			return err
		})
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.New(deps).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("Starting API server", "addr", cfg.Addr, "db", ctx.Store.GetConfigPath())
	return api.Run(runCtx, srv)
}
