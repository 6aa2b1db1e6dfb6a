package dbmigrate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/pkg/errors"
)

const (
	// TimestampFormat is the format of prefixes of generated migrations
	TimestampFormat = "20060102150405"
	// PrintTimestampFormat is used to print applied at times
	PrintTimestampFormat = "2006.01.02 15:04:05"
	// sequentialWidth is the minimum width of sequential prefixes, e.g. 0001
	sequentialWidth = 4
)

var slugSeparatorsRe = regexp.MustCompile(`[^a-z0-9_-]+`)

// normalizeSlug lowercases descr and replaces runs of unsupported characters with underscores
func normalizeSlug(descr string) string {
	s := slugSeparatorsRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(descr)), "_")
	return strings.Trim(s, "_")
}

// GenerateMigration creates up and down migration files stubs in dir and returns paths of the created files.
// Prefix of the files is now in TimestampFormat or, if sequential is true,
// the id following the greatest existing one.
func GenerateMigration(fs vfs.FileSystem, dir, descr string, now time.Time, sequential bool) ([]string, error) {
	slug := normalizeSlug(descr)
	if slug == "" {
		return nil, errors.Errorf("can't build migration name from %q", descr)
	}

	err := fs.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create migrations dir %s", dir)
	}

	migrations, err := Discover(fs, dir)
	if err != nil {
		return nil, err
	}

	var prefix string
	if sequential {
		next := MigrationID(1)
		if len(migrations) > 0 {
			next = migrations[len(migrations)-1].ID + 1
		}
		prefix = fmt.Sprintf("%0*d", sequentialWidth, next)
	} else {
		prefix = now.UTC().Format(TimestampFormat)
	}

	id, err := ParseMigrationID(prefix)
	if err != nil {
		return nil, err
	}
	for _, m := range migrations {
		if m.ID == id {
			return nil, errors.Errorf("migration with id %s already exists: %s", id, m)
		}
	}

	m := &Migration{ID: id, Prefix: prefix, Slug: slug}
	var fpaths []string
	for _, direction := range []Direction{DirectionUp, DirectionDown} {
		fpath := filepath.Join(dir, m.FileName(direction))
		if FileExists(fs, fpath) {
			return nil, errors.Errorf("file %s already exists", fpath)
		}

		stub := fmt.Sprintf("-- %s (%s)\n", m.HumanName(), direction)
		err = vfs.WriteFile(fs, fpath, []byte(stub), 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "can't create migration file %s", fpath)
		}
		fpaths = append(fpaths, fpath)
	}

	return fpaths, nil
}
