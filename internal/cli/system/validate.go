package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/validation"
)

type ValidateCmd struct {
	JSON bool `name:"json" help:"Print the report as JSON."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	completions, err := ctx.Store.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}

	report := validation.ValidateCompletions(habits, completions)
	if c.JSON {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		ctx.Println(string(b))
	} else {
		ctx.Print(report.FormatReport())
		if report.HasConflicts() {
			ctx.Printf("\nLegacy: %d  Duplicates: %d  Malformed: %d  Orphans: %d\n",
				report.Count(validation.ConflictLegacyFormat),
				report.Count(validation.ConflictDuplicateDay),
				report.Count(validation.ConflictMalformedDate),
				report.Count(validation.ConflictOrphanCompletion))
			if report.Fixable() {
				ctx.Println("All conflicts can be fixed with 'dates normalize'.")
			}
		}
	}

	if report.HasConflicts() {
		return fmt.Errorf("validation found %d conflict(s)", len(report.Conflicts))
	}
	return nil
}
