package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ongsys-sync/core/config"
	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/logger"
	"ongsys-sync/core/mapping"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/reconcile"

	"go.uber.org/zap"
)

const (
	endpoint    = "/pedidos"
	maxAttempts = 3
)

// Job turns finalized source purchase orders into submitted Material
// Receipt Stock Entries.
type Job struct {
	src     *ongsys.Client
	dst     erpnext.Client
	ensurer *reconcile.Ensurer
	table   *mapping.Table
	opts    config.Sync
	log     *zap.Logger

	// retryWait is the pause before retrying a LinkValidationError,
	// shortened in tests.
	retryWait time.Duration
}

// NewJob wires an order sync job. The mapping table is mandatory here;
// entry lines cannot be booked without a warehouse.
func NewJob(src *ongsys.Client, dst erpnext.Client, ensurer *reconcile.Ensurer, table *mapping.Table, opts config.Sync, log *zap.Logger) *Job {
	return &Job{
		src:       src,
		dst:       dst,
		ensurer:   ensurer,
		table:     table,
		opts:      opts,
		log:       log,
		retryWait: 5 * time.Second,
	}
}

// Run executes one full order pass and returns the run counters.
func (j *Job) Run(ctx context.Context) *reconcile.Counters {
	counters := reconcile.NewCounters("orders")
	log := logger.WithRun(j.log, counters.RunID, counters.Job)

	ext := j.src.FetchAll(ctx, endpoint, Key)
	eligible := make([]ongsys.Record, 0, len(ext.Records))
	for _, rec := range ext.Records {
		if Eligible(rec) {
			eligible = append(eligible, rec)
		}
	}
	log.Info("orders extracted",
		zap.Int("total", len(ext.Records)),
		zap.Int("finalized", len(eligible)),
	)

	counters.Extracted = len(eligible)
	counters.Declared = len(eligible)
	counters.Partial = ext.Truncated

	imported := ExistingIDs(ctx, j.dst, log)

	for _, rec := range eligible {
		counters.Add(j.sync(ctx, rec, imported, log))
	}

	counters.LogSummary(log)
	return counters
}

func (j *Job) sync(ctx context.Context, rec ongsys.Record, imported map[string]struct{}, log *zap.Logger) reconcile.Outcome {
	id := Key(rec)
	if _, done := imported[id]; done {
		log.Debug("order already imported", zap.String("order", id))
		return reconcile.OutcomeSkipped
	}

	if err := j.ensureSupplier(ctx, rec, log); err != nil {
		log.Error("supplier could not be ensured, order failed",
			zap.String("order", id), zap.Error(err))
		return reconcile.OutcomeFailed
	}

	entry, refs := buildEntry(rec, j.table, j.opts, log)
	if len(refs) == 0 {
		log.Info("order has no bookable lines", zap.String("order", id))
		return reconcile.OutcomeSkipped
	}

	if err := j.verifyReferences(ctx, refs); err != nil {
		log.Error("entry references missing documents, order failed",
			zap.String("order", id), zap.Error(err))
		return reconcile.OutcomeFailed
	}

	return j.post(ctx, id, entry, log)
}

// verifyReferences confirms every linked document exists. A submitted
// stock entry is rejected wholesale on a bad link, so failing early
// gives a clearer error than the API's.
func (j *Job) verifyReferences(ctx context.Context, refs []reference) error {
	checked := make(map[string]struct{})
	check := func(doctype, name string) error {
		memo := doctype + "|" + name
		if _, done := checked[memo]; done {
			return nil
		}
		checked[memo] = struct{}{}
		if j.dst.Exists(ctx, doctype, name) != erpnext.Found {
			return fmt.Errorf("%s %q not found, run the corresponding sync first", doctype, name)
		}
		return nil
	}

	for _, ref := range refs {
		if err := check("Item", ref.ItemCode); err != nil {
			return err
		}
		if err := check("Cost Center", ref.CostCenter); err != nil {
			return err
		}
		if err := check("Warehouse", ref.Warehouse); err != nil {
			return err
		}
	}
	return nil
}

// post submits the entry with bounded retries. A LinkValidationError
// right after dependency creation is a timing artifact of the
// destination's async indexing and resolves on its own.
func (j *Job) post(ctx context.Context, id string, entry map[string]any, log *zap.Logger) reconcile.Outcome {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := j.dst.Create(ctx, "Stock Entry", entry)
		if err == nil {
			log.Info("stock entry created", zap.String("order", id))
			return reconcile.OutcomeCreated
		}
		if errors.Is(err, erpnext.ErrConflict) {
			log.Info("stock entry already exists", zap.String("order", id))
			return reconcile.OutcomeSkipped
		}
		if isLinkValidation(err) && attempt < maxAttempts {
			log.Warn("link validation race, retrying",
				zap.String("order", id),
				zap.Int("attempt", attempt),
				zap.Duration("wait", j.retryWait),
			)
			time.Sleep(j.retryWait)
			continue
		}

		log.Error("stock entry creation failed",
			zap.String("order", id), zap.Error(err))
		return reconcile.OutcomeFailed
	}
	return reconcile.OutcomeFailed
}

func isLinkValidation(err error) bool {
	var apiErr *erpnext.APIError
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Body, "LinkValidationError")
}
