package reconcile

import (
	"context"
	"errors"
	"time"

	"ongsys-sync/core/erpnext"

	"go.uber.org/zap"
)

// EnsureResult classifies the outcome of an ensure-exists operation.
type EnsureResult int

const (
	// EnsureExisted means the document was already present.
	EnsureExisted EnsureResult = iota
	// EnsureCreated means the document was created and its visibility
	// confirmed within the polling window.
	EnsureCreated
	// EnsureUnconfirmed means the create was accepted but never became
	// visible before the deadline. Success is assumed; the destination
	// indexes new documents asynchronously.
	EnsureUnconfirmed
	// EnsureFailed means the create request was definitively rejected.
	EnsureFailed
)

// Failed reports whether the dependency cannot be relied upon.
func (r EnsureResult) Failed() bool { return r == EnsureFailed }

// Ensurer implements ensure-exists-with-optimistic-wait for dependency
// documents (groups, units, cost centers, warehouses). One parametrized
// routine shared by every entity-creation path, with a per-run memo so a
// dependency referenced by many records is only checked once.
//
// Not safe for concurrent use; runs are single-threaded by design.
type Ensurer struct {
	client   erpnext.Client
	log      *zap.Logger
	maxWait  time.Duration
	interval time.Duration
	ensured  map[string]struct{}
}

// NewEnsurer creates an Ensurer. maxWait bounds the post-create polling
// loop and interval is the pause between existence re-checks.
func NewEnsurer(client erpnext.Client, log *zap.Logger, maxWait, interval time.Duration) *Ensurer {
	if maxWait <= 0 {
		maxWait = 15 * time.Second
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Ensurer{
		client:   client,
		log:      log,
		maxWait:  maxWait,
		interval: interval,
		ensured:  make(map[string]struct{}),
	}
}

// Ensure guarantees a document exists before anything references it.
// An inconclusive existence check is treated as absence here: this is the
// one path designed to tolerate the resulting duplicate-create attempt,
// since the destination answers it with a conflict we absorb.
func (e *Ensurer) Ensure(ctx context.Context, doctype, docname string, payload map[string]any) EnsureResult {
	memo := doctype + "|" + docname
	if _, done := e.ensured[memo]; done {
		return EnsureExisted
	}

	if e.client.Exists(ctx, doctype, docname) == erpnext.Found {
		e.ensured[memo] = struct{}{}
		return EnsureExisted
	}

	e.log.Info("creating dependency document",
		zap.String("doctype", doctype),
		zap.String("docname", docname),
	)

	err := e.client.Create(ctx, doctype, payload)
	if err != nil && !errors.Is(err, erpnext.ErrConflict) {
		e.log.Error("dependency creation failed",
			zap.String("doctype", doctype),
			zap.String("docname", docname),
			zap.Error(err),
		)
		return EnsureFailed
	}

	// Create accepted (or raced with another creator). Poll until the
	// document becomes visible or the deadline passes.
	deadline := time.Now().Add(e.maxWait)
	for time.Now().Before(deadline) {
		time.Sleep(e.interval)
		if e.client.Exists(ctx, doctype, docname) == erpnext.Found {
			e.ensured[memo] = struct{}{}
			return EnsureCreated
		}
	}

	e.log.Warn("creation not confirmed before deadline, assuming success",
		zap.String("doctype", doctype),
		zap.String("docname", docname),
		zap.Duration("max_wait", e.maxWait),
	)
	e.ensured[memo] = struct{}{}
	return EnsureUnconfirmed
}
