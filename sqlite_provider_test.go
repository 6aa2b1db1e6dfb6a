package dbmigrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_sqliteProviderExist(t *testing.T) {
	_, ok := providers["sqlite"]
	assert.True(t, ok)
}

func Test_sqliteProvider_driverName(t *testing.T) {
	assert.Equal(t, "sqlite", (&sqliteProvider{}).driverName())
}

func Test_sqliteProvider_dsn(t *testing.T) {
	p := &sqliteProvider{}

	_, err := p.dsn(&Settings{})
	assert.EqualError(t, err, errDBNameNotProvided.Error())

	for url, exp := range map[string]string{
		"sqlite:///some/absolute/path/test.db": "/some/absolute/path/test.db",
		"sqlite://test.db":                     "test.db",
		"sqlite3://../test.db":                 "../test.db",
		"file:test.db?cache=shared":            "file:test.db?cache=shared",
	} {
		dsn, err := p.dsn(&Settings{URL: url})
		require.NoError(t, err, url)
		assert.Equal(t, exp, dsn)
	}

	dsn, err := p.dsn(&Settings{Engine: "sqlite", Database: "test.db"})
	require.NoError(t, err)
	assert.Equal(t, "test.db", dsn)

	_, err = p.dsn(&Settings{URL: "sqlite://"})
	assert.EqualError(t, err, errDBNameNotProvided.Error())
}

func Test_sqliteProvider_hasTableQuery(t *testing.T) {
	p := &sqliteProvider{}
	assert.Contains(t, p.hasTableQuery(), "sqlite")
}
