package dbmigrate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MigrationID is the ordering prefix of a migration file name.
// Migrations are ordered by its numeric value, so 9 goes before 10.
type MigrationID int64

func (id MigrationID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseMigrationID parses the ordering prefix of a migration file name
func ParseMigrationID(s string) (MigrationID, error) {
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return 0, errors.Wrapf(ErrInvalidMigrationID, "%q is not a number", s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidMigrationID, "%s is out of range", s)
	}
	return MigrationID(n), nil
}

// fileNameRe matches <prefix>_<slug>.<up|down>.sql
var fileNameRe = regexp.MustCompile(`^(\d+)_([A-Za-z0-9_-]+)\.((?i:up|down))\.(?i:sql)$`)

var errNotMigrationFile = errors.New("not a migration file")

// MigrationFile is one of the two files of a migration
type MigrationFile struct {
	ID MigrationID
	// Prefix is the ordering prefix as written in the file name
	Prefix    string
	Slug      string
	Direction Direction
	Path      string
	// SQL is executed as is, as one batch
	SQL string
}

// migrationFileFromName parses file name, returning errNotMigrationFile
// for names which don't follow the naming convention
func migrationFileFromName(fname string) (*MigrationFile, error) {
	matches := fileNameRe.FindStringSubmatch(fname)
	if matches == nil {
		return nil, errNotMigrationFile
	}

	id, err := ParseMigrationID(matches[1])
	if err != nil {
		return nil, err
	}

	direction, err := DirectionFromString(matches[3])
	if err != nil {
		return nil, errors.Wrapf(err, "can't parse migration from filename %s", fname)
	}

	return &MigrationFile{ID: id, Prefix: matches[1], Slug: matches[2], Direction: direction}, nil
}

// Migration is a pair of up and down files sharing the same id
type Migration struct {
	ID     MigrationID
	Prefix string
	Slug   string
	Up     *MigrationFile
	Down   *MigrationFile
}

type byID []*Migration

func (ms byID) Len() int           { return len(ms) }
func (ms byID) Swap(i, j int)      { ms[i], ms[j] = ms[j], ms[i] }
func (ms byID) Less(i, j int) bool { return ms[i].ID < ms[j].ID }

// File returns the migration file for the direction
func (m *Migration) File(direction Direction) *MigrationFile {
	if direction == DirectionDown {
		return m.Down
	}
	return m.Up
}

// FileName returns the name of the migration file for the direction
func (m *Migration) FileName(direction Direction) string {
	return fileName(m.Prefix, m.Slug, direction)
}

// HumanName returns the slug with underscores replaced by spaces
func (m *Migration) HumanName() string {
	return strings.Replace(m.Slug, "_", " ", -1)
}

func (m *Migration) String() string {
	return m.Prefix + "_" + m.Slug
}

func fileName(prefix, slug string, direction Direction) string {
	return strings.Join([]string{prefix + "_" + slug, direction.String(), "sql"}, ".")
}
