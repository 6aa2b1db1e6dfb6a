package main

import (
	"github.com/pkg/errors"
	"github.com/ramn/dbmigrate"
	"github.com/spf13/viper"
)

var (
	// ErrNoDatabaseURL is returned when the url is set neither by flag nor by config or env
	ErrNoDatabaseURL = errors.New("no database url, use --url or DBMIGRATE_URL")
	// ErrNoMigrationsPath is returned when the path is set neither by flag nor by config or env
	ErrNoMigrationsPath = errors.New("no migrations path, use --path or DBMIGRATE_PATH")
)

// config is what the app is configured with after all sources are merged
type config struct {
	URL        string
	Path       string
	Table      string
	Engine     string
	Sequential bool
}

// resolveConfig reads config from viper, migrations path is required by every command
func resolveConfig(v *viper.Viper) (*config, error) {
	c := &config{
		URL:        v.GetString("url"),
		Path:       v.GetString("path"),
		Table:      v.GetString("table"),
		Engine:     v.GetString("engine"),
		Sequential: v.GetBool("sequential"),
	}
	if c.Path == "" {
		return nil, ErrNoMigrationsPath
	}
	return c, nil
}

// settings returns migrator settings, they require the database url
func (c *config) settings() (*dbmigrate.Settings, error) {
	if c.URL == "" {
		return nil, ErrNoDatabaseURL
	}
	return &dbmigrate.Settings{
		URL:             c.URL,
		Engine:          c.Engine,
		MigrationsDir:   c.Path,
		MigrationsTable: c.Table,
	}, nil
}
