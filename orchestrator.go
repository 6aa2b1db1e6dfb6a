package dbmigrate

import (
	"context"
)

// Executor applies and reverts single migrations, *Ledger is the one used by Migrator
type Executor interface {
	Apply(ctx context.Context, m *Migration) error
	Revert(ctx context.Context, m *Migration) error
}

// ExecutionReport is the outcome of executing a plan
type ExecutionReport struct {
	Action Action
	// Completed are committed steps in execution order
	Completed []Step
	// Failed is the step execution stopped at, nil if all steps completed
	Failed *ExecutionError
}

// CompletedIDs returns ids of committed steps in execution order
func (r *ExecutionReport) CompletedIDs() []MigrationID {
	ids := make([]MigrationID, 0, len(r.Completed))
	for _, s := range r.Completed {
		ids = append(ids, s.Migration.ID)
	}
	return ids
}

// OK reports whether every step completed
func (r *ExecutionReport) OK() bool {
	return r.Failed == nil
}

// Err returns the failure as error or nil
func (r *ExecutionReport) Err() error {
	if r.Failed == nil {
		return nil
	}
	return r.Failed
}

// merge appends the report of the next phase
func (r *ExecutionReport) merge(next *ExecutionReport) {
	r.Completed = append(r.Completed, next.Completed...)
	r.Failed = next.Failed
}

// Execute runs steps of the plan one by one, stopping at the first failed one.
// Steps committed before the failure stay committed and are listed in the report.
func Execute(ctx context.Context, plan *ExecutionPlan, executor Executor) *ExecutionReport {
	return execute(ctx, plan, executor, 0)
}

// execute runs the plan numbering steps after offset ones which ran in the previous phases
func execute(ctx context.Context, plan *ExecutionPlan, executor Executor, offset int) *ExecutionReport {
	report := &ExecutionReport{Action: plan.Action}

	for i, step := range plan.Steps {
		err := ctx.Err()
		if err == nil {
			switch step.Direction {
			case DirectionUp:
				err = executor.Apply(ctx, step.Migration)
			default:
				err = executor.Revert(ctx, step.Migration)
			}
		}

		if err != nil {
			report.Failed = &ExecutionError{
				ID:        step.Migration.ID,
				Position:  offset + i + 1,
				Direction: step.Direction,
				Err:       err,
			}
			return report
		}
		report.Completed = append(report.Completed, step)
	}

	return report
}
