package dbmigrate

import (
	"strings"

	"github.com/pkg/errors"
)

// providers is the map where keys are database engines names and values are implementations of provider interface
var providers = make(map[string]provider)

// engineAliases maps URL schemes to engine names
var engineAliases = map[string]string{
	"postgresql": "postgres",
	"sqlite3":    "sqlite",
	"file":       "sqlite",
}

// urlScheme returns lowercased scheme of the connection url or empty string if there is no one
func urlScheme(url string) string {
	i := strings.Index(url, ":")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(url[:i])
}

// urlRest returns the part of connection url following the scheme and the optional double slash
func urlRest(url string) string {
	i := strings.Index(url, ":")
	return strings.TrimPrefix(url[i+1:], "//")
}

// engineName returns engine set explicitly or taken from the url scheme
func engineName(settings *Settings) (string, error) {
	engine := strings.ToLower(settings.Engine)
	if engine == "" {
		engine = urlScheme(settings.URL)
	}
	if engine == "" {
		return "", errors.Errorf("can't get database engine from url %q", settings.URL)
	}
	if alias, ok := engineAliases[engine]; ok {
		engine = alias
	}
	return engine, nil
}

// providerFor returns the provider serving settings
func providerFor(settings *Settings) (provider, error) {
	engine, err := engineName(settings)
	if err != nil {
		return nil, err
	}
	p, ok := providers[engine]
	if !ok {
		return nil, errors.Errorf("database engine %s is not supported, supported ones are %s", engine, strings.Join(Engines(), ", "))
	}
	return p, nil
}
