package users

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/models"
)

type UserCmd struct {
	New  UserNewCmd  `cmd:"" help:"Create a user and print its sync key."`
	Show UserShowCmd `cmd:"" help:"Show the current user's settings." default:"1"`
	Set  UserSetCmd  `cmd:"" help:"Update the current user's settings."`
	List UserListCmd `cmd:"" help:"List every user in the database."`
}

type UserNewCmd struct{}

func (c *UserNewCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Habits.NewUser()
	if err != nil {
		return err
	}
	ctx.Printf("Sync key: %s\n", u.ID)
	ctx.Printf("Pass it with --user or export %sUSER=%s\n", constants.EnvPrefix, u.ID)
	return nil
}

type UserShowCmd struct {
	JSON bool `name:"json" help:"Print as JSON."`
}

func (c *UserShowCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	u, err := ctx.Habits.User(userID)
	if err != nil {
		return err
	}

	if c.JSON {
		b, err := json.MarshalIndent(u, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		ctx.Println(string(b))
		return nil
	}
	printUser(ctx, u)
	return nil
}

func printUser(ctx *cli.Context, u models.User) {
	ctx.Printf("User:         %s\n", u.ID)
	ctx.Printf("Phone:        %s\n", orNone(u.Phone))
	ctx.Printf("Calls:        %v\n", u.CallEnabled)
	ctx.Printf("Call time:    %s\n", orNone(u.CallTime))
	ctx.Printf("Timezone:     %s\n", orNone(u.Timezone))
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

type UserSetCmd struct {
	Phone       *string `help:"Phone number in E.164 format. Empty clears it."`
	CallEnabled *bool   `name:"call-enabled" help:"Enable or disable scheduled check-in calls."`
	CallTime    *string `name:"call-time" help:"Daily call time (HH:MM, user's timezone)."`
	Timezone    *string `help:"IANA timezone, e.g. Europe/Berlin."`
}

func (c *UserSetCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}
	if c.Phone == nil && c.CallEnabled == nil && c.CallTime == nil && c.Timezone == nil {
		ctx.Println("No changes specified. Use 'user show' to view settings or flags to update them.")
		return nil
	}

	u, err := ctx.Habits.UpdateSettings(userID, habits.SettingsUpdate{
		Phone:       c.Phone,
		CallEnabled: c.CallEnabled,
		CallTime:    c.CallTime,
		Timezone:    c.Timezone,
	})
	if err != nil {
		return err
	}
	ctx.Println("Settings updated successfully.")
	printUser(ctx, u)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	all, err := ctx.Store.GetAllUsers()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		ctx.Println("No users found.")
		return nil
	}
	for _, u := range all {
		calls := ""
		if u.CanReceiveCalls() {
			calls = fmt.Sprintf("  calls at %s", orNone(u.CallTime))
		}
		ctx.Printf("%s  created %s%s\n", u.ID, u.CreatedAt.Format("2006-01-02"), calls)
	}
	return nil
}
