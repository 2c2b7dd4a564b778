package system

import (
	"github.com/julianstephens/dailypunch/internal/cli"
)

type DatesCmd struct {
	Normalize DatesNormalizeCmd `cmd:"" help:"Rewrite stored completion days to the compact format and merge duplicates."`
}

type DatesNormalizeCmd struct {
	DryRun bool `help:"Report what would change without writing."`
}

func (c *DatesNormalizeCmd) Run(ctx *cli.Context) error {
	if !c.DryRun {
		ctx.PerformAutomaticBackup()
	}

	report, err := ctx.Habits.NormalizeDays(c.DryRun)
	if err != nil {
		return err
	}

	verb := "Rewrote"
	if c.DryRun {
		verb = "Would rewrite"
	}
	ctx.Printf("Scanned %d completion(s).\n", report.Scanned)
	ctx.Printf("%s %d day(s) and merged %d duplicate(s).\n", verb, report.Rewritten, report.Merged)
	if report.Malformed > 0 {
		ctx.Printf("⚠ %d completion(s) have unreadable days and were left untouched.\n", report.Malformed)
	}
	return nil
}
