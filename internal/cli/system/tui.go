package system

import (
	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	if _, err := ctx.Habits.User(userID); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	return tui.Run(ctx.Habits, userID)
}
