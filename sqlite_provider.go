package dbmigrate

import (
	_ "modernc.org/sqlite"
)

func init() {
	providers["sqlite"] = &sqliteProvider{}
}

type sqliteProvider struct{}

func (p *sqliteProvider) driverName() string {
	return "sqlite"
}

// dsn returns database file path, sqlite:///abs/path.db and sqlite://rel/path.db urls are supported,
// file: urls are passed to the driver as is
func (p *sqliteProvider) dsn(settings *Settings) (string, error) {
	var dsn string
	switch {
	case urlScheme(settings.URL) == "file":
		dsn = settings.URL
	case settings.URL != "":
		dsn = urlRest(settings.URL)
	default:
		dsn = settings.Database
	}

	if dsn == "" {
		return "", errDBNameNotProvided
	}
	return dsn, nil
}

func (p *sqliteProvider) hasTableQuery() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?"
}
