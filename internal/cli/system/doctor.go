package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/keyring"
	"github.com/julianstephens/dailypunch/internal/validation"
)

type DoctorCmd struct{}

// check is one diagnostic. needsDB checks are skipped when the database
// could not be loaded; warn checks never fail the run.
type check struct {
	name    string
	needsDB bool
	warn    bool
	run     func(*cli.Context) error
}

var checks = []check{
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warn: true, run: checkBackupsPresent},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Clock/timezone", run: func(*cli.Context) error { return checkClock(time.Now()) }},
	{name: "OS keyring", warn: true, run: checkKeyring},
	{name: "Integrations", warn: true, run: checkIntegrations},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	n, err := ctx.Store.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%d migration(s) pending, run '%s migrate'", n, constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	completions, err := ctx.Store.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}

	report := validation.ValidateCompletions(habits, completions)
	if !report.HasConflicts() {
		return nil
	}
	msg := fmt.Sprintf("%d conflict(s) found", len(report.Conflicts))
	if report.Fixable() {
		msg += fmt.Sprintf(", run '%s dates normalize' to fix", constants.AppName)
	} else {
		msg += fmt.Sprintf(", run '%s validate' for details", constants.AppName)
	}
	return errors.New(msg)
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkIntegrations(ctx *cli.Context) error {
	cfg := ctx.Config
	var missing []string
	if cfg.Gemini.APIKey == "" {
		missing = append(missing, "gemini")
	}
	if cfg.Telnyx.APIKey == "" || cfg.Telnyx.ConnectionID == "" || cfg.Telnyx.FromNumber == "" {
		missing = append(missing, "telnyx")
	}
	if cfg.ElevenLabs.APIKey == "" {
		missing = append(missing, "elevenlabs")
	}
	if cfg.Push.VAPIDPublicKey == "" || cfg.Push.VAPIDPrivateKey == "" {
		missing = append(missing, "web push")
	}
	if len(missing) > 0 {
		return fmt.Errorf("not configured: %s", strings.Join(missing, ", "))
	}
	return nil
}
