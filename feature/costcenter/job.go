package costcenter

import (
	"context"

	"ongsys-sync/core/config"
	"ongsys-sync/core/logger"
	"ongsys-sync/core/mapping"
	"ongsys-sync/core/reconcile"

	"go.uber.org/zap"
)

// Job ensures the Cost Center tree the order sync books stock against:
// one group parent and one child per mapping rule.
type Job struct {
	ensurer *reconcile.Ensurer
	table   *mapping.Table
	opts    config.Sync
	log     *zap.Logger
}

// NewJob wires a cost-center sync job.
func NewJob(ensurer *reconcile.Ensurer, table *mapping.Table, opts config.Sync, log *zap.Logger) *Job {
	return &Job{ensurer: ensurer, table: table, opts: opts, log: log}
}

// Run ensures the parent cost center and then every mapped child.
// A missing parent aborts the run; nothing could attach to it.
func (j *Job) Run(ctx context.Context) *reconcile.Counters {
	counters := reconcile.NewCounters("costcenters")
	log := logger.WithRun(j.log, counters.RunID, counters.Job)

	parent := j.ensurer.Ensure(ctx, "Cost Center", j.opts.ParentCostCenter, map[string]any{
		"cost_center_name": j.opts.ParentCostCenter,
		"company":          j.opts.Company,
		"is_group":         1,
	})
	if parent.Failed() {
		log.Error("parent cost center could not be ensured, aborting",
			zap.String("parent", j.opts.ParentCostCenter))
		counters.Failed = len(j.table.Rules)
		counters.LogSummary(log)
		return counters
	}

	counters.Extracted = len(j.table.Rules)
	counters.Declared = len(j.table.Rules)

	for _, rule := range j.table.Rules {
		name := rule.DocName()
		result := j.ensurer.Ensure(ctx, "Cost Center", name, map[string]any{
			"cost_center_name":   name,
			"parent_cost_center": j.opts.ParentCostCenter,
			"company":            j.opts.Company,
			"is_group":           0,
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
