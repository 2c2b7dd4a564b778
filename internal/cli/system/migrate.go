package system

import (
	"fmt"

	"github.com/julianstephens/dailypunch/internal/cli"
)

type MigrateCmd struct {
	Check bool `help:"Only report how many migrations are pending."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if c.Check {
		n, err := ctx.Store.PendingMigrations()
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		ctx.Printf("%d migration(s) pending.\n", n)
		return nil
	}

	count, err := ctx.Store.Migrate(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
