package reconcile

import (
	"context"
	"errors"
	"fmt"

	"ongsys-sync/core/erpnext"

	"go.uber.org/zap"
)

// LookupFunc resolves the existing destination record for a target, or
// nil when it does not exist. A returned error means existence could not
// be decided and the record is failed, not created.
type LookupFunc func(ctx context.Context) (erpnext.Doc, error)

// DepsFunc pre-creates the documents a payload references. On the create
// path changes is nil and the full target applies; on the update path it
// receives the ChangeSet so only newly referenced dependencies are
// ensured.
type DepsFunc func(ctx context.Context, changes ChangeSet) error

// UpsertRequest describes one record reconciliation.
type UpsertRequest struct {
	// Doctype is the destination resource collection.
	Doctype string
	// Key is the natural key, used only for log context.
	Key string
	// Target is the normalized payload, skip marker already stripped.
	Target map[string]any
	// Fields fixes the compared fields and the clearable subset.
	Fields FieldSpec
	// Lookup performs the existence check for this record.
	Lookup LookupFunc
	// EnsureDeps pre-creates referenced documents. Optional.
	EnsureDeps DepsFunc
}

// Upserter drives a single record through the reconciliation states:
// not found -> creating -> done, or found -> diffing -> unchanged or
// updating -> done, with failure confined to the record.
type Upserter struct {
	client erpnext.Client
	log    *zap.Logger
}

// NewUpserter creates an Upserter.
func NewUpserter(client erpnext.Client, log *zap.Logger) *Upserter {
	return &Upserter{client: client, log: log}
}

// Upsert reconciles one record and reports its outcome. The returned
// error carries context for the log; callers count it, they do not abort.
func (u *Upserter) Upsert(ctx context.Context, req UpsertRequest) (Outcome, error) {
	current, err := req.Lookup(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("lookup failed for %s %q: %w", req.Doctype, req.Key, err)
	}

	if current == nil {
		return u.create(ctx, req)
	}
	return u.update(ctx, req, current)
}

func (u *Upserter) create(ctx context.Context, req UpsertRequest) (Outcome, error) {
	if req.EnsureDeps != nil {
		if err := req.EnsureDeps(ctx, nil); err != nil {
			return OutcomeFailed, fmt.Errorf("dependencies for %s %q: %w", req.Doctype, req.Key, err)
		}
	}

	u.log.Info("creating record",
		zap.String("doctype", req.Doctype),
		zap.String("key", req.Key),
	)

	err := u.client.Create(ctx, req.Doctype, req.Target)
	if err == nil {
		return OutcomeCreated, nil
	}
	if !errors.Is(err, erpnext.ErrConflict) {
		return OutcomeFailed, fmt.Errorf("create failed for %s %q: %w", req.Doctype, req.Key, err)
	}

	// Someone else created it between the lookup and the POST, or the
	// lookup was inconclusive. Fall back to the update path against the
	// now-existing record.
	u.log.Info("create conflict, falling back to update path",
		zap.String("doctype", req.Doctype),
		zap.String("key", req.Key),
	)
	current, lerr := req.Lookup(ctx)
	if lerr != nil || current == nil {
		u.log.Warn("conflicting record not visible after conflict, assuming success",
			zap.String("doctype", req.Doctype),
			zap.String("key", req.Key),
			zap.Error(lerr),
		)
		return OutcomeUnconfirmed, nil
	}
	return u.update(ctx, req, current)
}

func (u *Upserter) update(ctx context.Context, req UpsertRequest, current erpnext.Doc) (Outcome, error) {
	changes := Diff(req.Target, current, req.Fields)
	if len(changes) == 0 {
		return OutcomeUnchanged, nil
	}

	if req.EnsureDeps != nil {
		if err := req.EnsureDeps(ctx, changes); err != nil {
			return OutcomeFailed, fmt.Errorf("dependencies for %s %q: %w", req.Doctype, req.Key, err)
		}
	}

	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	u.log.Info("updating record",
		zap.String("doctype", req.Doctype),
		zap.String("key", req.Key),
		zap.Strings("fields", fields),
	)

	// Partial update of only the changed fields; no re-fetch afterwards.
	if err := u.client.Update(ctx, req.Doctype, current.Name(), changes); err != nil {
		return OutcomeFailed, fmt.Errorf("update failed for %s %q: %w", req.Doctype, req.Key, err)
	}
	return OutcomeUpdated, nil
}
