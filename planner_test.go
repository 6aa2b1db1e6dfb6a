package dbmigrate

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMigrations(ids ...MigrationID) []*Migration {
	migrations := make([]*Migration, 0, len(ids))
	for _, id := range ids {
		migrations = append(migrations, testMigration(id, "m"+id.String(), "", ""))
	}
	return migrations
}

func Test_ParseAction(t *testing.T) {
	for s, exp := range map[string]Action{
		"status": ActionStatus, "up": ActionUp, "DOWN": ActionDown, "Rollback": ActionRollback, "reset": ActionReset,
	} {
		a, err := ParseAction(s)
		require.NoError(t, err)
		assert.Equal(t, exp, a)
	}

	_, err := ParseAction("redo")
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func Test_Action_String(t *testing.T) {
	assert.Equal(t, "rollback", ActionRollback.String())
	assert.Empty(t, actionError.String())
}

func Test_Phases(t *testing.T) {
	assert.Equal(t, []Action{ActionDown, ActionUp}, Phases(ActionReset))
	assert.Equal(t, []Action{ActionUp}, Phases(ActionUp))
}

func Test_Plan_status(t *testing.T) {
	plan, err := Plan(testMigrations(1, 2), NewAppliedSet(1), ActionStatus)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps)
	assert.Equal(t, ActionStatus, plan.Action)
}

func Test_Plan_up(t *testing.T) {
	migrations := testMigrations(10, 2, 9, 1)

	plan, err := Plan(migrations, NewAppliedSet(), ActionUp)
	require.NoError(t, err)
	assert.Equal(t, []MigrationID{1, 2, 9, 10}, plan.IDs())
	for _, s := range plan.Steps {
		assert.Equal(t, DirectionUp, s.Direction)
	}

	// gaps are filled too
	plan, err = Plan(migrations, NewAppliedSet(1, 9), ActionUp)
	require.NoError(t, err)
	assert.Equal(t, []MigrationID{2, 10}, plan.IDs())

	plan, err = Plan(migrations, NewAppliedSet(1, 2, 9, 10), ActionUp)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps)

	// input is not reordered
	assert.Equal(t, MigrationID(10), migrations[0].ID)
}

func Test_Plan_down(t *testing.T) {
	migrations := testMigrations(1, 2, 3)

	plan, err := Plan(migrations, NewAppliedSet(1, 3), ActionDown)
	require.NoError(t, err)
	assert.Equal(t, []MigrationID{3, 1}, plan.IDs())
	for _, s := range plan.Steps {
		assert.Equal(t, DirectionDown, s.Direction)
	}

	plan, err = Plan(migrations, NewAppliedSet(), ActionDown)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps)

	_, err = Plan(migrations, NewAppliedSet(1, 5), ActionDown)
	assert.True(t, errors.Is(err, ErrMissingMigrationFile))
	var pe *PlannerError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, MigrationID(5), pe.ID)
}

func Test_Plan_rollback(t *testing.T) {
	migrations := testMigrations(1, 2, 3)

	plan, err := Plan(migrations, NewAppliedSet(1, 2), ActionRollback)
	require.NoError(t, err)
	assert.Equal(t, []MigrationID{2}, plan.IDs())
	assert.Equal(t, DirectionDown, plan.Steps[0].Direction)

	plan, err = Plan(migrations, NewAppliedSet(), ActionRollback)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps)

	// only the reverted migration needs files
	plan, err = Plan(migrations, NewAppliedSet(1, 2, 3, 0), ActionRollback)
	require.NoError(t, err)
	assert.Equal(t, []MigrationID{3}, plan.IDs())

	_, err = Plan(migrations, NewAppliedSet(1, 4), ActionRollback)
	var pe *PlannerError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, MigrationID(4), pe.ID)
}

func Test_Plan_reset(t *testing.T) {
	_, err := Plan(testMigrations(1), NewAppliedSet(1), ActionReset)
	assert.True(t, errors.Is(err, ErrPhasedAction))

	_, err = Plan(testMigrations(1), NewAppliedSet(1), Action(42))
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func Test_Plan_isPure(t *testing.T) {
	migrations := testMigrations(1, 2, 3)
	applied := NewAppliedSet(1)

	p1, err := Plan(migrations, applied, ActionUp)
	require.NoError(t, err)
	p2, err := Plan(migrations, applied, ActionUp)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, NewAppliedSet(1), applied)
}

func Test_Statuses(t *testing.T) {
	at := time.Date(2018, 9, 18, 20, 4, 53, 0, time.UTC)
	migrations := testMigrations(1, 2, 10)
	entries := []LedgerEntry{{ID: 1, AppliedAt: at}, {ID: 5, AppliedAt: at}, {ID: 10, AppliedAt: at}}

	statuses := Statuses(migrations, entries)
	require.Len(t, statuses, 4)

	assert.Equal(t, &MigrationStatus{ID: 1, Migration: migrations[0], Applied: true, AppliedAt: at}, statuses[0])
	assert.Equal(t, &MigrationStatus{ID: 2, Migration: migrations[1]}, statuses[1])
	assert.Equal(t, &MigrationStatus{ID: 5, Applied: true, AppliedAt: at, Missing: true}, statuses[2])
	assert.Equal(t, MigrationID(10), statuses[3].ID)
	assert.True(t, statuses[3].Applied)

	assert.Empty(t, Statuses(nil, nil))
}
