package dbmigrate

import (
	_ "github.com/jackc/pgx/v5/stdlib"
)

func init() {
	providers["pgx"] = &pgxProvider{}
}

// pgxProvider connects to postgres using pgx driver instead of lib/pq
type pgxProvider struct {
	postgresProvider
}

func (p *pgxProvider) driverName() string {
	return "pgx"
}

// dsn rewrites pgx:// scheme, pgx accepts the same urls and key=value strings as lib/pq
func (p *pgxProvider) dsn(settings *Settings) (string, error) {
	if urlScheme(settings.URL) == "pgx" {
		return "postgres://" + urlRest(settings.URL), nil
	}
	return p.postgresProvider.dsn(settings)
}
