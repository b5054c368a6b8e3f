// Package snapshot optionally archives each run's raw extracted batch to
// S3-compatible object storage. One JSON object per run keeps the exact
// input a reconciliation saw, which makes "why did the sync do that"
// questions answerable after the source has moved on.
package snapshot
