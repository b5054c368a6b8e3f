package reconcile

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome classifies what happened to a single record during a run.
type Outcome int

const (
	// OutcomeCreated means the record was created in the destination.
	OutcomeCreated Outcome = iota
	// OutcomeUpdated means only the changed fields were sent.
	OutcomeUpdated
	// OutcomeUnchanged means the destination already matched the target.
	OutcomeUnchanged
	// OutcomeSkipped means the record was intentionally not synced
	// (inactive status, missing items, already imported).
	OutcomeSkipped
	// OutcomeFailed means processing this record failed; the run continues.
	OutcomeFailed
	// OutcomeUnconfirmed means a creation was sent but its visibility was
	// never confirmed within the polling window. Success is assumed, but
	// the outcome stays distinct so operators can audit it.
	OutcomeUnconfirmed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeUnconfirmed:
		return "unconfirmed"
	default:
		return "unknown"
	}
}

// Counters aggregates per-outcome totals for one sync run.
// Process-local, reset each run, never persisted by this package.
type Counters struct {
	RunID     string
	Job       string
	StartedAt time.Time

	// Extracted is the number of source records processed.
	Extracted int
	// Declared is the source-declared total, when the API announced one.
	Declared int
	// Partial reports that extraction stopped early on a failure.
	Partial bool

	Created     int
	Updated     int
	Unchanged   int
	Skipped     int
	Failed      int
	Unconfirmed int
}

// NewCounters starts a counter set for a job with a fresh run id.
func NewCounters(job string) *Counters {
	return &Counters{
		RunID:     uuid.NewString(),
		Job:       job,
		StartedAt: time.Now(),
	}
}

// Add records one outcome.
func (c *Counters) Add(o Outcome) {
	switch o {
	case OutcomeCreated:
		c.Created++
	case OutcomeUpdated:
		c.Updated++
	case OutcomeUnchanged:
		c.Unchanged++
	case OutcomeSkipped:
		c.Skipped++
	case OutcomeFailed:
		c.Failed++
	case OutcomeUnconfirmed:
		c.Unconfirmed++
	}
}

// Fields renders the counters as structured log fields.
func (c *Counters) Fields() []zap.Field {
	return []zap.Field{
		zap.String("run_id", c.RunID),
		zap.String("job", c.Job),
		zap.Int("extracted", c.Extracted),
		zap.Int("declared", c.Declared),
		zap.Bool("partial", c.Partial),
		zap.Int("created", c.Created),
		zap.Int("updated", c.Updated),
		zap.Int("unchanged", c.Unchanged),
		zap.Int("skipped", c.Skipped),
		zap.Int("failed", c.Failed),
		zap.Int("unconfirmed", c.Unconfirmed),
		zap.Duration("elapsed", time.Since(c.StartedAt)),
	}
}

// LogSummary prints the end-of-run report.
func (c *Counters) LogSummary(l *zap.Logger) {
	l.Info("sync summary", c.Fields()...)
}
