package itemgroup

import (
	"context"
	"sort"

	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/logger"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/reconcile"
	"ongsys-sync/core/utils"

	"go.uber.org/zap"
)

const endpoint = "/produtos"

// Job creates the destination Item Groups referenced by source products
// before the product sync needs them.
type Job struct {
	src     *ongsys.Client
	dst     erpnext.Client
	ensurer *reconcile.Ensurer
	log     *zap.Logger
}

// NewJob wires an item-group sync job.
func NewJob(src *ongsys.Client, dst erpnext.Client, ensurer *reconcile.Ensurer, log *zap.Logger) *Job {
	return &Job{src: src, dst: dst, ensurer: ensurer, log: log}
}

// Run collects the distinct group names from the product listing and
// creates the ones the destination does not have yet.
func (j *Job) Run(ctx context.Context) *reconcile.Counters {
	counters := reconcile.NewCounters("groups")
	log := logger.WithRun(j.log, counters.RunID, counters.Job)

	ext := j.src.FetchAll(ctx, endpoint, func(rec ongsys.Record) string {
		return utils.NormalizeCode(rec["id"])
	})
	counters.Extracted = len(ext.Records)
	counters.Declared = ext.Declared
	counters.Partial = ext.Truncated

	groups := distinctGroups(ext.Records)
	if len(groups) == 0 {
		counters.LogSummary(log)
		return counters
	}

	existing, err := j.existingGroups(ctx)
	if err != nil {
		log.Error("failed to list existing item groups", zap.Error(err))
		counters.Failed = len(groups)
		counters.LogSummary(log)
		return counters
	}

	for _, group := range groups {
		if _, ok := existing[group]; ok {
			counters.Add(reconcile.OutcomeUnchanged)
			continue
		}
		result := j.ensurer.Ensure(ctx, "Item Group", group, map[string]any{
			"item_group_name": group,
			"is_group":        1,
		})
		counters.Add(outcomeFor(result))
	}

	counters.LogSummary(log)
	return counters
}

// distinctGroups returns the sorted distinct non-empty group names.
func distinctGroups(records []ongsys.Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		group := rec.String("grupo")
		if group == "" {
			continue
		}
		if _, dup := seen[group]; dup {
			continue
		}
		seen[group] = struct{}{}
		out = append(out, group)
	}
	sort.Strings(out)
	return out
}

// existingGroups lists destination group names once instead of probing
// each candidate individually.
func (j *Job) existingGroups(ctx context.Context) (map[string]struct{}, error) {
	docs, err := j.dst.List(ctx, "Item Group", erpnext.ListOptions{
		Fields: []string{"item_group_name"},
		Limit:  1000,
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if name, ok := doc["item_group_name"].(string); ok && name != "" {
			out[name] = struct{}{}
		}
	}
	return out, nil
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
