package dbmigrate

import (
	"github.com/pkg/errors"
)

var (
	errDBNameNotProvided = errors.New("database name is not provided")
	errUserNotProvided   = errors.New("user is not provided")
)

// provider is the interface for database engines specific stuff
type provider interface {
	// driverName returns driver name used by the database/sql lib to connect to database
	driverName() string
	// dsn returns database connection string
	dsn(settings *Settings) (string, error)
	// hasTableQuery returns SQL query to check if the table used to store migrations exists
	hasTableQuery() string
}

// placeholdersProvider is the interface to set database specific variables placeholders in a SQL string
type placeholdersProvider interface {
	// setPlaceholders sets database specific variables placeholders in a SQL string
	setPlaceholders(string) string
}

// defaultProvider is the default implementation of hasTableQuery, valid for engines having information_schema
// and folding unquoted identifiers to lower case
type defaultProvider struct{}

func (p *defaultProvider) hasTableQuery() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = lower(?)"
}
