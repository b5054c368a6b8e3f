package warehouse

import (
	"context"

	"ongsys-sync/core/config"
	"ongsys-sync/core/logger"
	"ongsys-sync/core/mapping"
	"ongsys-sync/core/reconcile"

	"go.uber.org/zap"
)

// Job ensures a destination Warehouse for every distinct warehouse named
// in the mapping file.
type Job struct {
	ensurer *reconcile.Ensurer
	table   *mapping.Table
	opts    config.Sync
	log     *zap.Logger
}

// NewJob wires a warehouse sync job.
func NewJob(ensurer *reconcile.Ensurer, table *mapping.Table, opts config.Sync, log *zap.Logger) *Job {
	return &Job{ensurer: ensurer, table: table, opts: opts, log: log}
}

// Run ensures each distinct warehouse exists.
func (j *Job) Run(ctx context.Context) *reconcile.Counters {
	counters := reconcile.NewCounters("warehouses")
	log := logger.WithRun(j.log, counters.RunID, counters.Job)

	names := j.table.Warehouses()
	counters.Extracted = len(names)
	counters.Declared = len(names)

	for _, name := range names {
		result := j.ensurer.Ensure(ctx, "Warehouse", name, map[string]any{
			"warehouse_name": name,
			"company":        j.opts.Company,
			"is_group":       0,
		})
		counters.Add(outcomeFor(result))
	}

	counters.LogSummary(log)
	return counters
}

func outcomeFor(result reconcile.EnsureResult) reconcile.Outcome {
	switch result {
	case reconcile.EnsureCreated:
		return reconcile.OutcomeCreated
	case reconcile.EnsureExisted:
		return reconcile.OutcomeUnchanged
	case reconcile.EnsureUnconfirmed:
		return reconcile.OutcomeUnconfirmed
	default:
		return reconcile.OutcomeFailed
	}
}
