package dbmigrate

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/pkg/errors"
)

// pairState is the state of an id while files are being paired
type pairState int

const (
	stateOnlyUp pairState = iota + 1
	stateOnlyDown
	statePaired
)

type pairing struct {
	migration *Migration
	state     pairState
}

func newPairing(f *MigrationFile) *pairing {
	return &pairing{migration: &Migration{ID: f.ID, Prefix: f.Prefix, Slug: f.Slug}}
}

// add puts the file into its slot, moving the pairing to the next state
func (p *pairing) add(f *MigrationFile) error {
	m := p.migration
	if f.Prefix != m.Prefix || f.Slug != m.Slug {
		return &DiscoveryError{
			Kind: ErrDuplicateMigrationID, ID: f.ID, Prefix: f.Prefix, Path: f.Path,
			Reason: "id is already used by " + m.String(),
		}
	}

	switch {
	case f.Direction == DirectionUp && m.Up == nil:
		m.Up = f
	case f.Direction == DirectionDown && m.Down == nil:
		m.Down = f
	default:
		return &DiscoveryError{
			Kind: ErrIncompleteMigration, ID: f.ID, Prefix: f.Prefix, Path: f.Path,
			Reason: "more than one " + f.Direction.String() + " file",
		}
	}

	switch {
	case m.Up != nil && m.Down != nil:
		p.state = statePaired
	case m.Up != nil:
		p.state = stateOnlyUp
	default:
		p.state = stateOnlyDown
	}
	return nil
}

func (p *pairing) check() error {
	var missing Direction
	switch p.state {
	case statePaired:
		return nil
	case stateOnlyUp:
		missing = DirectionDown
	default:
		missing = DirectionUp
	}
	return &DiscoveryError{
		Kind: ErrIncompleteMigration, ID: p.migration.ID, Prefix: p.migration.Prefix,
		Reason: p.migration.FileName(missing) + " not found",
	}
}

// Discover reads migrations from dir, pairs up and down files and returns migrations in ascending id order.
// Files not following <prefix>_<slug>.<up|down>.sql naming are skipped.
func Discover(fs vfs.FileSystem, dir string) ([]*Migration, error) {
	if !DirExists(fs, dir) {
		return nil, errors.Wrap(ErrMigrationsDirNotFound, dir)
	}

	infos, err := vfs.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read migrations dir %s", dir)
	}

	pairings := make(map[MigrationID]*pairing)
	for _, info := range infos {
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			continue
		}

		f, err := migrationFileFromName(info.Name())
		if err == errNotMigrationFile {
			continue
		}
		fpath := filepath.Join(dir, info.Name())
		if err != nil {
			return nil, &DiscoveryError{Kind: ErrInvalidMigrationID, Path: fpath, Reason: err.Error()}
		}
		f.Path = fpath

		data, err := vfs.ReadFile(fs, fpath)
		if err != nil {
			return nil, errors.Wrapf(err, "can't read migration file %s", fpath)
		}
		f.SQL = string(data)

		p, ok := pairings[f.ID]
		if !ok {
			p = newPairing(f)
			pairings[f.ID] = p
		}
		if err := p.add(f); err != nil {
			return nil, err
		}
	}

	migrations := make([]*Migration, 0, len(pairings))
	for _, p := range pairings {
		migrations = append(migrations, p.migration)
	}
	sort.Sort(byID(migrations))

	for _, m := range migrations {
		if err := pairings[m.ID].check(); err != nil {
			return nil, err
		}
	}

	return migrations, nil
}
