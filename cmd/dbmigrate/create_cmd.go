package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/pkg/errors"
	"github.com/ramn/dbmigrate"
	"github.com/spf13/cobra"
)

// createCmd is the Cobra command to create migrations, it doesn't need the database
var createCmd = &cobra.Command{
	Use:   "create <slug>",
	Short: "Creates two migration files (up and down) with the given slug",
	Long: `Creates up and down migration files, use args to build migration slug,
e.g. dbmigrate create Create posts table will become create_posts_table in the created files names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return createMigration(cmd.OutOrStdout(), osfs.New(), cfg, time.Now(), args...)
	},
}

// createMigration is the actual migration creation function
func createMigration(w io.Writer, fs vfs.FileSystem, cfg *config, now time.Time, args ...string) error {
	fpaths, err := dbmigrate.GenerateMigration(fs, cfg.Path, strings.Join(args, " "), now, cfg.Sequential)
	if err != nil {
		return errors.Wrap(err, "can't create migration")
	}

	for _, fpath := range fpaths {
		fmt.Fprintf(w, "created %s\n", fpath)
	}

	return nil
}
