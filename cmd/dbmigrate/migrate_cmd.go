package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ramn/dbmigrate"
	"github.com/spf13/cobra"
)

var (
	upCmd       = newActionCmd(dbmigrate.ActionUp, "Apply all non-applied migrations")
	downCmd     = newActionCmd(dbmigrate.ActionDown, "Un-apply all applied migrations")
	rollbackCmd = newActionCmd(dbmigrate.ActionRollback, "Rollback the current migration")
	resetCmd    = newActionCmd(dbmigrate.ActionReset, "Equivalent of dbmigrate down && dbmigrate up")
)

func newActionCmd(action dbmigrate.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action.String(),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := openMigrator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer migrator.Close()

			_, err = runAction(cmd.Context(), cmd.OutOrStdout(), migrator, action)
			return err
		},
	}
}

// runAction runs action and prints its report, it returns the number of executed migrations
func runAction(ctx context.Context, w io.Writer, migrator *dbmigrate.Migrator, action dbmigrate.Action) (int, error) {
	report, err := migrator.Run(ctx, action)
	printReport(w, report, err)
	return len(report.Completed), err
}

// printReport prints executed migrations and the summary, the summary is omitted if err is not caused by a step
func printReport(w io.Writer, report *dbmigrate.ExecutionReport, err error) {
	for _, step := range report.Completed {
		verb := "applied"
		if step.Direction == dbmigrate.DirectionDown {
			verb = "reverted"
		}
		fmt.Fprintf(w, "%s %s\n", verb, step.Migration.FileName(step.Direction))
	}

	n := len(report.Completed)
	if report.OK() {
		if err != nil {
			return
		}
		if n == 0 {
			fmt.Fprintln(w, "Nothing to do")
			return
		}
		fmt.Fprintf(w, "Done, %d %s executed\n", n, pluralize("migration", n))
		return
	}

	ids := make([]string, 0, n)
	for _, id := range report.CompletedIDs() {
		ids = append(ids, id.String())
	}
	completed := "none"
	if n > 0 {
		completed = strings.Join(ids, ", ")
	}
	fmt.Fprintf(w, "Stopped at step %d (migration %s), completed: %s\n",
		report.Failed.Position, report.Failed.ID, completed)
}
