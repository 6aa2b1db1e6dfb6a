package main

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pkg/errors"
	"github.com/ramn/dbmigrate"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "See list of migrations and which ones are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, err := openMigrator(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer migrator.Close()

		return status(cmd.Context(), cmd.OutOrStdout(), migrator)
	},
}

// status prints the table of migrations followed by the summary
func status(ctx context.Context, w io.Writer, migrator *dbmigrate.Migrator) error {
	statuses, err := migrator.Status(ctx)
	if err != nil {
		return errors.Wrap(err, "can't get migrations status")
	}

	if len(statuses) == 0 {
		fmt.Fprintln(w, "No migrations exist yet")
		return nil
	}

	isUpToDate := true
	var missing int
	data := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		name := "(files not found)"
		if s.Migration != nil {
			name = s.Migration.HumanName()
		}
		appliedAt := "-"
		if s.Applied {
			appliedAt = s.AppliedAt.Format(dbmigrate.PrintTimestampFormat)
		} else {
			isUpToDate = false
		}
		if s.Missing {
			missing++
		}
		data = append(data, []string{s.ID.String(), name, appliedAt})
	}

	err = renderTable(w, []string{"ID", "NAME", "APPLIED AT"}, data)
	if err != nil {
		return errors.Wrap(err, "can't render migrations table")
	}

	if lm := migrator.LatestMigration(); lm != nil {
		fmt.Fprintf(w, "Latest migration is %s\n", lm.FileName(dbmigrate.DirectionUp))
	}

	lam, err := migrator.LastAppliedMigration(ctx)
	if err != nil {
		return errors.Wrap(err, "can't get last applied migration")
	}
	switch {
	case lam != nil:
		fmt.Fprintf(w, "Last applied migration is %s\n", lam.FileName(dbmigrate.DirectionUp))
	case isAnyApplied(statuses):
		fmt.Fprintln(w, "Files of the last applied migration not found")
	default:
		fmt.Fprintln(w, "No migrations were applied yet")
	}

	if missing > 0 {
		fmt.Fprintf(w, "Files of %d applied %s not found\n", missing, pluralize("migration", missing))
	}

	if isUpToDate {
		fmt.Fprintln(w, "Database schema is up to date")
	} else {
		fmt.Fprintln(w, "Database schema is not up to date")
	}

	return nil
}

func isAnyApplied(statuses []*dbmigrate.MigrationStatus) bool {
	for _, s := range statuses {
		if s.Applied {
			return true
		}
	}
	return false
}

func renderTable(w io.Writer, header []string, data [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleASCII),
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)

	table.Header(header)
	err := table.Bulk(data)
	if err != nil {
		return err
	}
	return table.Render()
}
