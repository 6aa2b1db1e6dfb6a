package dbmigrate

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Action is what an invocation asks to do with the database schema
type Action int

const (
	actionError = Action(iota)
	// ActionStatus only reports which migrations are applied
	ActionStatus
	// ActionUp applies all pending migrations
	ActionUp
	// ActionDown reverts all applied migrations
	ActionDown
	// ActionRollback reverts the latest applied migration
	ActionRollback
	// ActionReset reverts all applied migrations and then applies all migrations
	ActionReset
)

var actionNames = map[Action]string{
	ActionStatus:   "status",
	ActionUp:       "up",
	ActionDown:     "down",
	ActionRollback: "rollback",
	ActionReset:    "reset",
}

func (a Action) String() string {
	return actionNames[a]
}

// ParseAction returns action by its name
func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if strings.EqualFold(s, name) {
			return a, nil
		}
	}
	return actionError, errors.Wrap(ErrUnknownAction, s)
}

// Phases splits action into actions which have to be planned and executed one after another,
// each against the applied set left by the previous one
func Phases(action Action) []Action {
	if action == ActionReset {
		return []Action{ActionDown, ActionUp}
	}
	return []Action{action}
}

// Step is one operation of the plan
type Step struct {
	Migration *Migration
	Direction Direction
}

// ExecutionPlan is the ordered list of steps computed for one action
type ExecutionPlan struct {
	Action Action
	Steps  []Step
}

// IDs returns ids of migrations in the order of steps
func (p *ExecutionPlan) IDs() []MigrationID {
	ids := make([]MigrationID, 0, len(p.Steps))
	for _, s := range p.Steps {
		ids = append(ids, s.Migration.ID)
	}
	return ids
}

// Plan computes steps needed to perform action given discovered migrations and applied ids.
// Reset can't be planned at once, see Phases.
func Plan(migrations []*Migration, applied AppliedSet, action Action) (*ExecutionPlan, error) {
	sorted := make([]*Migration, len(migrations))
	copy(sorted, migrations)
	sort.Sort(byID(sorted))

	plan := &ExecutionPlan{Action: action}

	switch action {
	case ActionStatus:
	case ActionUp:
		for _, m := range sorted {
			if !applied.Has(m.ID) {
				plan.Steps = append(plan.Steps, Step{Migration: m, Direction: DirectionUp})
			}
		}
	case ActionDown:
		if err := checkFilesExist(sorted, applied.IDs()...); err != nil {
			return nil, err
		}
		for i := len(sorted) - 1; i >= 0; i-- {
			if applied.Has(sorted[i].ID) {
				plan.Steps = append(plan.Steps, Step{Migration: sorted[i], Direction: DirectionDown})
			}
		}
	case ActionRollback:
		id, ok := applied.Max()
		if !ok {
			break
		}
		if err := checkFilesExist(sorted, id); err != nil {
			return nil, err
		}
		plan.Steps = append(plan.Steps, Step{Migration: findMigration(sorted, id), Direction: DirectionDown})
	case ActionReset:
		return nil, errors.Wrap(ErrPhasedAction, action.String())
	default:
		return nil, errors.Wrapf(ErrUnknownAction, "%d", int(action))
	}

	return plan, nil
}

func findMigration(sorted []*Migration, id MigrationID) *Migration {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i].ID >= id })
	if i < len(sorted) && sorted[i].ID == id {
		return sorted[i]
	}
	return nil
}

// checkFilesExist returns PlannerError for the first of ids not having a migration
func checkFilesExist(sorted []*Migration, ids ...MigrationID) error {
	for _, id := range ids {
		if findMigration(sorted, id) == nil {
			return &PlannerError{ID: id, Err: ErrMissingMigrationFile}
		}
	}
	return nil
}

// MigrationStatus tells whether a migration is applied
type MigrationStatus struct {
	ID MigrationID
	// Migration is nil if Missing
	Migration *Migration
	Applied   bool
	AppliedAt time.Time
	// Missing is true for applied migrations which files are not found
	Missing bool
}

// Statuses returns status of every discovered migration and of every applied one without files, in id order
func Statuses(migrations []*Migration, entries []LedgerEntry) []*MigrationStatus {
	byAppliedID := make(map[MigrationID]LedgerEntry, len(entries))
	for _, e := range entries {
		byAppliedID[e.ID] = e
	}

	statuses := make([]*MigrationStatus, 0, len(migrations))
	known := make(map[MigrationID]struct{}, len(migrations))
	for _, m := range migrations {
		known[m.ID] = struct{}{}
		s := &MigrationStatus{ID: m.ID, Migration: m}
		if e, ok := byAppliedID[m.ID]; ok {
			s.Applied = true
			s.AppliedAt = e.AppliedAt
		}
		statuses = append(statuses, s)
	}

	for _, e := range entries {
		if _, ok := known[e.ID]; !ok {
			statuses = append(statuses, &MigrationStatus{ID: e.ID, Applied: true, AppliedAt: e.AppliedAt, Missing: true})
		}
	}

	sort.SliceStable(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}
