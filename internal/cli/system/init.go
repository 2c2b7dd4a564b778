package system

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/config"
	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/storage"
)

type InitCmd struct {
	Force      bool   `help:"Delete the existing SQLite database before initializing."`
	ConfigPath string `name:"config-path" help:"Where to write the default config file." default:"${config_file}"`
	WithUser   bool   `name:"with-user" help:"Also create a user and print its sync key."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	target := ctx.Store.GetConfigPath()
	if c.Force {
		if storage.IsPostgres(target) {
			return fmt.Errorf("--force is only supported for SQLite databases")
		}
		if _, err := os.Stat(target); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(target); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", target)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, target)

	if c.ConfigPath != "" {
		path := kong.ExpandPath(c.ConfigPath)
		written, err := config.WriteDefault(path)
		if err != nil {
			return err
		}
		if written {
			ctx.Printf("Wrote default config to: %s\n", path)
		}
	}

	if !c.WithUser {
		ctx.Printf("Create a user with '%s user new'.\n", constants.AppName)
		return nil
	}
	u, err := ctx.Habits.NewUser()
	if err != nil {
		return err
	}
	ctx.Printf("Created user. Sync key: %s\n", u.ID)
	ctx.Printf("Pass it with --user or set %sUSER.\n", constants.EnvPrefix)
	return nil
}
