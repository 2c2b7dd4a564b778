package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/cli/backups"
	"github.com/julianstephens/dailypunch/internal/cli/calls"
	"github.com/julianstephens/dailypunch/internal/cli/habits"
	"github.com/julianstephens/dailypunch/internal/cli/push"
	"github.com/julianstephens/dailypunch/internal/cli/system"
	"github.com/julianstephens/dailypunch/internal/cli/users"
	"github.com/julianstephens/dailypunch/internal/config"
	"github.com/julianstephens/dailypunch/internal/constants"
	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/keyring"
	"github.com/julianstephens/dailypunch/internal/logger"
)

// CLI is the root command. Config's Validate hook is promoted to it, so no
// field may be named Validate.
type CLI struct {
	config.Config `embed:""`

	Version kong.VersionFlag `help:"Print version and exit."`

	Init    system.InitCmd     `cmd:"" help:"Initialize dailypunch storage and config."`
	Migrate system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Check   system.ValidateCmd `cmd:"" name:"validate" help:"Check stored completions for conflicts."`
	Tui     system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve   system.ServeCmd    `cmd:"" help:"Run the HTTP API."`
	Dates   system.DatesCmd    `cmd:"" help:"Maintain stored completion days."`
	Keyring system.KeyringCmd  `cmd:"" help:"Manage secrets in the OS keyring."`
	Habit   habits.HabitCmd    `cmd:"" help:"Manage habits and habit tracking."`
	User    users.UserCmd      `cmd:"" help:"Manage users and their settings."`
	Push    push.PushCmd       `cmd:"" help:"Web push keys and reminders."`
	Call    calls.CallCmd      `cmd:"" help:"Check-in phone calls."`
	Backup  backups.BackupCmd  `cmd:"" help:"Manage database backups."`
	Notify  system.NotifyCmd   `cmd:"" hidden:"" help:"Show due habits in the tray app (used by cron)."`
}

// noStore lists commands that open the database themselves or never
// touch it.
var noStore = map[string]bool{
	"init":      true,
	"doctor":    true,
	"keyring":   true,
	"push keys": true,
}

func needsStore(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return true
	}
	if noStore[fields[0]] {
		return false
	}
	if len(fields) > 1 && noStore[fields[0]+" "+fields[1]] {
		return false
	}
	return true
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, reminders and check-in calls."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"config_file":   constants.DefaultConfigFile,
			"keyring_names": strings.Join(keyring.Names, ", "),
		},
		kong.DefaultEnvars(strings.TrimSuffix(constants.EnvPrefix, "_")),
	}
}

func main() {
	var root CLI
	ctx := kong.Parse(&root, append(options(),
		kong.Configuration(config.TOML, constants.DefaultConfigFile),
	)...)

	cfg := &root.Config
	command := ctx.Command()
	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.Dir(),
		Console:   strings.HasPrefix(command, "serve"),
	}); err != nil {
		apperrors.Fatal(err)
	}

	cfg.ResolveSecrets()
	store, err := cfg.OpenStore()
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	if needsStore(command) {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(cli.NewContext(cfg, store)); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
