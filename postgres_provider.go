package dbmigrate

import (
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
)

func init() {
	providers["postgres"] = &postgresProvider{}
}

type postgresProvider struct {
	defaultProvider
}

func (p *postgresProvider) driverName() string {
	return "postgres"
}

// dsn returns url as is, lib/pq understands postgres:// and postgresql:// ones,
// otherwise builds key=value connection string from settings
func (p *postgresProvider) dsn(settings *Settings) (string, error) {
	if settings.URL != "" {
		return settings.URL, nil
	}

	var kvs []string

	if settings.Database == "" {
		return "", errDBNameNotProvided
	}
	kvs = append(kvs, "dbname="+settings.Database)

	if settings.User == "" {
		return "", errUserNotProvided
	}
	kvs = append(kvs, "user="+settings.User)

	if settings.Password != "" {
		kvs = append(kvs, "password="+settings.Password)
	}

	if settings.Host != "" {
		kvs = append(kvs, "host="+settings.Host)
	}

	if settings.Port != 0 {
		kvs = append(kvs, "port="+strconv.Itoa(settings.Port))
	}

	kvs = append(kvs, "sslmode=disable")

	return strings.Join(kvs, " "), nil
}

func (p *postgresProvider) setPlaceholders(s string) string {
	counter := 0
	for strings.Contains(s, "?") {
		counter++
		s = strings.Replace(s, "?", fmt.Sprintf("$%d", counter), 1)
	}
	return s
}
