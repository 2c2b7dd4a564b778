package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/keyring"
	"github.com/julianstephens/dailypunch/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability and stored entries." default:"1"`
}

type KeyringSetCmd struct {
	Name   string `arg:"" help:"Entry name (${keyring_names})."`
	Secret string `arg:"" help:"Secret value."`
}

func checkName(name string) error {
	if !keyring.IsKnown(name) {
		return fmt.Errorf("unknown keyring entry %q (expected one of: %s)", name, strings.Join(keyring.Names, ", "))
	}
	return nil
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if err := checkName(cmd.Name); err != nil {
		return err
	}

	if cmd.Name == constants.KeyringDatabase {
		if err := postgres.ValidateConnString(cmd.Secret); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
			ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(cmd.Name, cmd.Secret); err != nil {
		return err
	}
	ctx.Printf("✓ %s stored successfully in OS keyring\n", cmd.Name)
	return nil
}

type KeyringGetCmd struct {
	Name string `arg:"" help:"Entry name (${keyring_names})."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	if err := checkName(cmd.Name); err != nil {
		return err
	}
	secret, err := keyring.Get(cmd.Name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use '%s keyring set' to store one", cmd.Name, constants.AppName)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", cmd.Name, err)
	}

	if cmd.Name == constants.KeyringDatabase {
		ctx.Println(maskPassword(secret))
	} else {
		ctx.Println(maskSecret(secret))
	}
	return nil
}

type KeyringDeleteCmd struct {
	Name string `arg:"" help:"Entry name (${keyring_names})."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := checkName(cmd.Name); err != nil {
		return err
	}
	if err := keyring.Delete(cmd.Name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", cmd.Name)
		}
		return err
	}
	ctx.Printf("✓ %s deleted from OS keyring\n", cmd.Name)
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	ctx.Println("✓ OS keyring is available")

	for _, name := range keyring.Names {
		if _, err := keyring.Get(name); err == nil {
			ctx.Printf("✓ %s is stored\n", name)
		} else {
			ctx.Printf("ℹ %s is not stored\n", name)
		}
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		idx := strings.Index(connStr, "://")
		rest := connStr[idx+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
			}
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}

// maskSecret keeps the last four characters of an API key.
func maskSecret(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
