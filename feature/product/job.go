package product

import (
	"context"
	"errors"
	"fmt"

	"ongsys-sync/core/config"
	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/logger"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/reconcile"
	"ongsys-sync/core/utils"

	"go.uber.org/zap"
)

const endpoint = "/produtos"

// Job synchronizes source products into destination Item documents.
type Job struct {
	src      *ongsys.Client
	dst      erpnext.Client
	upserter *reconcile.Upserter
	ensurer  *reconcile.Ensurer
	opts     config.Sync
	log      *zap.Logger
}

// NewJob wires a product sync job.
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

// Run executes one full product pass and returns the run counters.
func (j *Job) Run(ctx context.Context) *reconcile.Counters {
	counters := reconcile.NewCounters("products")
	log := logger.WithRun(j.log, counters.RunID, counters.Job)

	// The base group and unit must exist before any item references them.
	if err := j.ensureBase(ctx); err != nil {
		log.Error("base dependencies unavailable, aborting product sync", zap.Error(err))
		counters.LogSummary(log)
		return counters
	}

	countries := FetchCountries(ctx, j.dst, log)

	ext := j.src.FetchAll(ctx, endpoint, Key)
	counters.Extracted = len(ext.Records)
	counters.Declared = ext.Declared
	counters.Partial = ext.Truncated

	for _, rec := range ext.Records {
		counters.Add(j.sync(ctx, rec, countries, log))
	}

	counters.LogSummary(log)
	return counters
}

func (j *Job) ensureBase(ctx context.Context) error {
	if err := j.ensureGroup(ctx, j.opts.DefaultItemGroup); err != nil {
		return err
	}
	return j.ensureUOM(ctx, j.opts.DefaultUOM)
}

func (j *Job) sync(ctx context.Context, rec ongsys.Record, countries CountrySet, log *zap.Logger) reconcile.Outcome {
	target, skip := Normalize(rec, countries, j.opts)
	if skip != "" {
		log.Debug("skipping product",
			zap.String("key", Key(rec)),
			zap.String("reason", skip),
		)
		return reconcile.OutcomeSkipped
	}

	code := utils.ToString(target["item_code"])
	outcome, err := j.upserter.Upsert(ctx, reconcile.UpsertRequest{
		Doctype: "Item",
		Key:     code,
		Target:  target,
		Fields: reconcile.FieldSpec{
			Compared: ComparedFields,
			Nullable: NullableFields,
		},
		Lookup: func(ctx context.Context) (erpnext.Doc, error) {
			doc, err := j.dst.GetDoc(ctx, "Item", code, ItemFields)
			if errors.Is(err, erpnext.ErrNotFound) {
				return nil, nil
			}
			return doc, err
		},
		EnsureDeps: func(ctx context.Context, changes reconcile.ChangeSet) error {
			return j.ensureDeps(ctx, target, changes)
		},
	})
	if err != nil {
		log.Error("product sync failed", zap.String("key", code), zap.Error(err))
	}
	return outcome
}

// ensureDeps pre-creates the group and unit a payload references. On the
// update path only the fields actually changing trigger a check.
func (j *Job) ensureDeps(ctx context.Context, target map[string]any, changes reconcile.ChangeSet) error {
	groupNeeded := changes == nil
	uomNeeded := changes == nil
	if changes != nil {
		_, groupNeeded = changes["item_group"]
		_, uomNeeded = changes["stock_uom"]
	}

	if groupNeeded {
		if err := j.ensureGroup(ctx, utils.ToString(target["item_group"])); err != nil {
			return err
		}
	}
	if uomNeeded {
		if err := j.ensureUOM(ctx, utils.ToString(target["stock_uom"])); err != nil {
			return err
		}
	}
	return nil
}

func (j *Job) ensureGroup(ctx context.Context, name string) error {
	result := j.ensurer.Ensure(ctx, "Item Group", name, map[string]any{
		"item_group_name":   name,
		"parent_item_group": "All Item Groups",
		"is_group":          0,
	})
	if result.Failed() {
		return fmt.Errorf("item group %q could not be ensured", name)
	}
	return nil
}

func (j *Job) ensureUOM(ctx context.Context, name string) error {
	result := j.ensurer.Ensure(ctx, "UOM", name, map[string]any{
		"uom_name": name,
		"enabled":  1,
	})
	if result.Failed() {
		return fmt.Errorf("uom %q could not be ensured", name)
	}
	return nil
}
