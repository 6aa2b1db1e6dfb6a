package dbmigrate

import (
	"context"
	"log/slog"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/pkg/errors"
)

// Migrator discovers migrations and runs actions against the ledger
type Migrator struct {
	settings   *Settings
	fs         vfs.FileSystem
	logger     *slog.Logger
	ledger     *Ledger
	migrations []*Migration
	timeNow    func() time.Time
}

// NewMigrator returns migrator instance.
// Migrations are discovered and the migrations table is created before it returns,
// so a broken migrations dir is reported before the database is touched.
func NewMigrator(ctx context.Context, settings *Settings, opts ...Option) (*Migrator, error) {
	err := settings.validate()
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	m := &Migrator{settings: settings, fs: o.fs, logger: o.logger, timeNow: o.timeNow}

	m.migrations, err = Discover(m.fs, settings.MigrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "can't discover migrations")
	}
	m.logger.Debug("discovered migrations", "dir", settings.MigrationsDir, "count", len(m.migrations))

	m.ledger, err = OpenLedger(ctx, settings, opts...)
	if err != nil {
		return nil, err
	}

	err = m.ledger.EnsureTable(ctx)
	if err != nil {
		m.ledger.Close()
		return nil, err
	}

	return m, nil
}

// Close frees resources acquired by migrator
func (m *Migrator) Close() error {
	return m.ledger.Close()
}

// Migrations returns discovered migrations in ascending id order
func (m *Migrator) Migrations() []*Migration {
	return m.migrations
}

// Ledger returns the ledger migrator works with
func (m *Migrator) Ledger() *Ledger {
	return m.ledger
}

// Status returns status of each migration, it never changes the database
func (m *Migrator) Status(ctx context.Context) ([]*MigrationStatus, error) {
	entries, err := m.ledger.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return Statuses(m.migrations, entries), nil
}

// Run plans and executes action phase by phase.
// The returned report lists committed steps even if error is not nil.
func (m *Migrator) Run(ctx context.Context, action Action) (*ExecutionReport, error) {
	report := &ExecutionReport{Action: action}

	for _, phase := range Phases(action) {
		applied, err := m.ledger.AppliedIDs(ctx)
		if err != nil {
			return report, err
		}

		plan, err := Plan(m.migrations, applied, phase)
		if err != nil {
			return report, err
		}
		m.logger.Debug("planned", "action", phase, "steps", len(plan.Steps))

		report.merge(execute(ctx, plan, m.ledger, len(report.Completed)))
		if !report.OK() {
			m.logger.Error("migration failed",
				"action", action,
				"id", report.Failed.ID,
				"step", report.Failed.Position,
				"completed", len(report.Completed))
			return report, report.Err()
		}
	}

	return report, nil
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) (*ExecutionReport, error) {
	return m.Run(ctx, ActionUp)
}

// Down reverts all applied migrations
func (m *Migrator) Down(ctx context.Context) (*ExecutionReport, error) {
	return m.Run(ctx, ActionDown)
}

// Rollback reverts the latest applied migration
func (m *Migrator) Rollback(ctx context.Context) (*ExecutionReport, error) {
	return m.Run(ctx, ActionRollback)
}

// Reset reverts all applied migrations and then applies all migrations
func (m *Migrator) Reset(ctx context.Context) (*ExecutionReport, error) {
	return m.Run(ctx, ActionReset)
}

// LatestMigration returns the migration with the greatest id or nil if there are no migrations
func (m *Migrator) LatestMigration() *Migration {
	if len(m.migrations) == 0 {
		return nil
	}
	return m.migrations[len(m.migrations)-1]
}

// LastAppliedMigration returns the applied migration with the greatest id or nil if none is applied
// or its files are missing
func (m *Migrator) LastAppliedMigration(ctx context.Context) (*Migration, error) {
	applied, err := m.ledger.AppliedIDs(ctx)
	if err != nil {
		return nil, err
	}
	id, ok := applied.Max()
	if !ok {
		return nil, nil
	}
	return findMigration(m.migrations, id), nil
}

// GenerateMigration creates up and down migration files in the migrations dir
func (m *Migrator) GenerateMigration(descr string, sequential bool) ([]string, error) {
	return GenerateMigration(m.fs, m.settings.MigrationsDir, descr, m.timeNow(), sequential)
}
