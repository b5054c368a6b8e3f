// Package runlog persists one audit row per finished sync run.
//
// The table answers "what did last night's run do" without digging
// through log files: per-outcome counters, the declared versus extracted
// totals and whether the batch was partial. It is strictly write-only
// from the sync's point of view; no job ever reads it back, so a missing
// or unreachable database degrades to a logged warning.
package runlog
