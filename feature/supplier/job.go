package supplier

import (
	"context"

	"ongsys-sync/core/config"
	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/logger"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/reconcile"
	"ongsys-sync/core/utils"

	"go.uber.org/zap"
)

const endpoint = "/fornecedores"

// Job synchronizes source suppliers into destination Supplier documents.
type Job struct {
	src      *ongsys.Client
	dst      erpnext.Client
	upserter *reconcile.Upserter
	ensurer  *reconcile.Ensurer
	opts     config.Sync
	log      *zap.Logger
}

// NewJob wires a supplier sync job.
func NewJob(src *ongsys.Client, dst erpnext.Client, ensurer *reconcile.Ensurer, opts config.Sync, log *zap.Logger) *Job {
	return &Job{
		src:      src,
		dst:      dst,
		upserter: reconcile.NewUpserter(dst, log),
		ensurer:  ensurer,
		opts:     opts,
		log:      log,
	}
}

// Run executes one full supplier pass and returns the run counters.
func (j *Job) Run(ctx context.Context) *reconcile.Counters {
	counters := reconcile.NewCounters("suppliers")
	log := logger.WithRun(j.log, counters.RunID, counters.Job)

	ext := j.src.FetchAll(ctx, endpoint, Key)
	counters.Extracted = len(ext.Records)
	counters.Declared = ext.Declared
	counters.Partial = ext.Truncated

	for _, rec := range ext.Records {
		outcome := j.sync(ctx, rec, log)
		counters.Add(outcome)
	}

	counters.LogSummary(log)
	return counters
}

func (j *Job) sync(ctx context.Context, rec ongsys.Record, log *zap.Logger) reconcile.Outcome {
	target, skip := Normalize(rec, j.opts)
	if skip != "" {
		log.Debug("skipping supplier",
			zap.String("key", Key(rec)),
			zap.String("reason", skip),
		)
		return reconcile.OutcomeSkipped
	}

	outcome, err := j.upserter.Upsert(ctx, reconcile.UpsertRequest{
		Doctype: "Supplier",
		Key:     Key(rec),
		Target:  target,
		Fields:  reconcile.FieldSpec{Compared: ComparedFields},
		Lookup:  j.lookup(rec, target),
		EnsureDeps: func(ctx context.Context, changes reconcile.ChangeSet) error {
			return j.ensureGroup(ctx, changes)
		},
	})
	if err != nil {
		log.Error("supplier sync failed", zap.String("key", Key(rec)), zap.Error(err))
	}
	return outcome
}

// lookup resolves an existing Supplier by tax id first and by exact name
// second. Names drift; the tax document is the stable identity.
func (j *Job) lookup(rec ongsys.Record, target map[string]any) reconcile.LookupFunc {
	return func(ctx context.Context) (erpnext.Doc, error) {
		if id := TaxID(rec); id != "" {
			doc, err := j.dst.FindOne(ctx, "Supplier", []erpnext.Filter{erpnext.Eq("tax_id", id)})
			if err != nil {
				return nil, err
			}
			if doc != nil {
				return j.fetch(ctx, doc.Name())
			}
		}
		name := utils.ToString(target["supplier_name"])
		doc, err := j.dst.FindOne(ctx, "Supplier", []erpnext.Filter{erpnext.Eq("supplier_name", name)})
		if err != nil || doc == nil {
			return nil, err
		}
		return j.fetch(ctx, doc.Name())
	}
}

func (j *Job) fetch(ctx context.Context, name string) (erpnext.Doc, error) {
	fields := append([]string{"name"}, ComparedFields...)
	return j.dst.GetDoc(ctx, "Supplier", name, fields)
}

// ensureGroup pre-creates the default supplier group before anything
// references it. On updates it only runs when the group field changed.
func (j *Job) ensureGroup(ctx context.Context, changes reconcile.ChangeSet) error {
	if changes != nil {
		if _, touched := changes["supplier_group"]; !touched {
			return nil
		}
	}
	group := j.opts.DefaultSupplierGroup
	result := j.ensurer.Ensure(ctx, "Supplier Group", group, map[string]any{
		"supplier_group_name":   group,
		"parent_supplier_group": "All Supplier Groups",
	})
	if result.Failed() {
		return &GroupError{Group: group}
	}
	return nil
}

// GroupError reports that the supplier group dependency could not be
// guaranteed.
type GroupError struct {
	Group string
}

func (e *GroupError) Error() string {
	return "supplier group " + e.Group + " could not be ensured"
}
