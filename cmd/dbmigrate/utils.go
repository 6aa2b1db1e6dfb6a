package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/ramn/dbmigrate"
)

// exitWithError prints an error to the terminal and terminates app with error
func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func pluralize(s string, n int) string {
	if n != 1 {
		return s + "s"
	}
	return s
}

// openMigrator returns migrator for the resolved config, it has to be closed by the caller
func openMigrator(ctx context.Context, cfg *config) (*dbmigrate.Migrator, error) {
	settings, err := cfg.settings()
	if err != nil {
		return nil, err
	}
	return dbmigrate.NewMigrator(ctx, settings, dbmigrate.WithFS(osfs.New()), dbmigrate.WithLogger(logger))
}
