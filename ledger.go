package dbmigrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// LedgerEntry is a row of the migrations table
type LedgerEntry struct {
	ID        MigrationID
	AppliedAt time.Time
}

// AppliedSet is the set of applied migrations ids
type AppliedSet map[MigrationID]struct{}

// NewAppliedSet returns set holding ids
func NewAppliedSet(ids ...MigrationID) AppliedSet {
	s := make(AppliedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has checks if the migration with id is applied
func (s AppliedSet) Has(id MigrationID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns applied ids in ascending order
func (s AppliedSet) IDs() []MigrationID {
	ids := make([]MigrationID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Max returns the greatest applied id, ok is false if the set is empty
func (s AppliedSet) Max() (id MigrationID, ok bool) {
	for appliedID := range s {
		if !ok || appliedID > id {
			id, ok = appliedID, true
		}
	}
	return id, ok
}

// Ledger owns the database connection and the migrations table.
// It is the only source of truth about which migrations are applied.
type Ledger struct {
	settings *Settings
	table    string
	db       *sql.DB
	provider
	placeholdersProvider
	timeNow func() time.Time
	logger  *slog.Logger
}

// OpenLedger connects to the database described by settings
func OpenLedger(ctx context.Context, settings *Settings, opts ...Option) (*Ledger, error) {
	p, err := providerFor(settings)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	l := newLedger(settings, p, o)
	if err := l.open(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func newLedger(settings *Settings, provider provider, o *options) *Ledger {
	l := &Ledger{
		settings: settings,
		table:    settings.migrationsTable(),
		provider: provider,
		timeNow:  o.timeNow,
		logger:   o.logger,
	}
	if pp, ok := l.provider.(placeholdersProvider); ok {
		l.placeholdersProvider = pp
	}
	return l
}

func (l *Ledger) open(ctx context.Context) error {
	dsn, err := l.provider.dsn(l.settings)
	if err != nil {
		return err
	}

	l.db, err = sql.Open(l.provider.driverName(), dsn)
	if err != nil {
		return newLedgerError(ErrConnectionFailed, err, "open %s database", l.provider.driverName())
	}

	err = l.db.PingContext(ctx)
	if err != nil {
		l.db.Close()
		return newLedgerError(ErrConnectionFailed, err, "connect to %s database", l.provider.driverName())
	}

	return nil
}

// Close closes the database connection
func (l *Ledger) Close() error {
	err := l.db.Close()
	if err != nil {
		return errors.Wrap(err, "can't close db")
	}
	return nil
}

// Table returns the name of the migrations table
func (l *Ledger) Table() string {
	return l.table
}

func (l *Ledger) setPlaceholders(s string) string {
	if l.placeholdersProvider == nil {
		return s
	}
	return l.placeholdersProvider.setPlaceholders(s)
}

func (l *Ledger) hasMigrationsTable(ctx context.Context) (bool, error) {
	var table string
	err := l.db.QueryRowContext(ctx, l.setPlaceholders(l.provider.hasTableQuery()), l.table).Scan(&table)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, queryError(err, "check if migrations table %s exists", l.table)
	}
	return true, nil
}

// EnsureTable creates the migrations table if it doesn't exist yet
func (l *Ledger) EnsureTable(ctx context.Context) error {
	exists, err := l.hasMigrationsTable(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = l.db.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id BIGINT NOT NULL, applied_at TIMESTAMP NOT NULL, PRIMARY KEY (id))", l.table))
	if err != nil {
		return queryError(err, "create migrations table %s", l.table)
	}
	l.logger.Info("created migrations table", "table", l.table)
	return nil
}

// Entries returns rows of the migrations table in ascending id order
func (l *Ledger) Entries(ctx context.Context) ([]LedgerEntry, error) {
	rows, err := l.db.QueryContext(ctx, fmt.Sprintf("SELECT id, applied_at FROM %s ORDER BY id ASC", l.table))
	if err != nil {
		return nil, queryError(err, "get applied migrations")
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var id int64
		var appliedAt timeValue
		err = rows.Scan(&id, &appliedAt)
		if err != nil {
			return nil, queryError(err, "scan applied migration row")
		}
		entries = append(entries, LedgerEntry{ID: MigrationID(id), AppliedAt: appliedAt.t})
	}
	if err = rows.Err(); err != nil {
		return nil, queryError(err, "get applied migrations")
	}
	return entries, nil
}

// AppliedIDs returns the set of applied migrations ids
func (l *Ledger) AppliedIDs(ctx context.Context) (AppliedSet, error) {
	entries, err := l.Entries(ctx)
	if err != nil {
		return nil, err
	}
	s := make(AppliedSet, len(entries))
	for _, e := range entries {
		s[e.ID] = struct{}{}
	}
	return s, nil
}

// Apply executes up SQL of the migration and records it in the migrations table in one transaction
func (l *Ledger) Apply(ctx context.Context, m *Migration) error {
	query := l.setPlaceholders(fmt.Sprintf("INSERT INTO %s (id, applied_at) VALUES (?, ?)", l.table))
	err := l.runInTx(ctx, m, DirectionUp, query, int64(m.ID), l.timeNow().UTC())
	if err != nil {
		return err
	}
	l.logger.Info("applied migration", "id", m.ID, "name", m.HumanName())
	return nil
}

// Revert executes down SQL of the migration and deletes it from the migrations table in one transaction
func (l *Ledger) Revert(ctx context.Context, m *Migration) error {
	query := l.setPlaceholders(fmt.Sprintf("DELETE FROM %s WHERE id = ?", l.table))
	err := l.runInTx(ctx, m, DirectionDown, query, int64(m.ID))
	if err != nil {
		return err
	}
	l.logger.Info("reverted migration", "id", m.ID, "name", m.HumanName())
	return nil
}

// runInTx executes the migration batch followed by the bookkeeping statement.
// Once started the transaction is not bound to ctx cancellation, so the batch runs to completion or failure.
func (l *Ledger) runInTx(ctx context.Context, m *Migration, direction Direction, query string, args ...interface{}) error {
	op := "apply"
	if direction == DirectionDown {
		op = "revert"
	}

	f := m.File(direction)
	if f == nil {
		return errors.Errorf("migration %s has no %s file", m, direction)
	}

	if err := ctx.Err(); err != nil {
		return newLedgerError(ErrTransactionFailed, err, "%s migration %s", op, m.ID)
	}
	ctx = context.WithoutCancel(ctx)

	// DDL is transactional in postgres and sqlite, mysql commits it implicitly
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return newLedgerError(ErrTransactionFailed, err, "begin transaction for migration %s", m.ID)
	}

	if strings.TrimSpace(f.SQL) != "" {
		l.logger.Debug("executing migration", "id", m.ID, "direction", direction, "file", f.Path)
		_, err = tx.ExecContext(ctx, f.SQL)
		if err != nil {
			tx.Rollback()
			return queryError(err, "%s migration %s", op, m.ID)
		}
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		tx.Rollback()
		return queryError(err, "record %s of migration %s", op, m.ID)
	}

	err = tx.Commit()
	if err != nil {
		return newLedgerError(ErrTransactionFailed, err, "commit migration %s", m.ID)
	}
	return nil
}

// timeValueLayouts are layouts of times returned as text by drivers
var timeValueLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timeValue scans applied_at column which drivers return either as time.Time or as text
type timeValue struct {
	t time.Time
}

func (v *timeValue) Scan(src interface{}) error {
	switch x := src.(type) {
	case nil:
		v.t = time.Time{}
		return nil
	case time.Time:
		v.t = x
		return nil
	case []byte:
		return v.parse(string(x))
	case string:
		return v.parse(x)
	}
	return errors.Errorf("can't scan %T into time", src)
}

func (v *timeValue) parse(s string) error {
	for _, layout := range timeValueLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			v.t = t
			return nil
		}
	}
	return errors.Errorf("can't parse time %q", s)
}
