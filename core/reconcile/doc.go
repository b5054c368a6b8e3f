// Package reconcile implements the idempotent-upsert core shared by every
// sync job: field-level diffing, dependency ensuring with optimistic
// verification, the per-record upsert state machine and run counters.
//
// # The reconciliation shape
//
// Every entity job follows the same single-pass sequence: extract from the
// source, normalize one record, look up the destination by natural key,
// diff a fixed allow-list of fields, then create or partially update.
// This package owns the entity-independent parts; feature packages supply
// normalizers, field specs and lookups.
//
// # Asymmetric nulls
//
// Diff never clears a destination field just because the source had no
// value, except for the per-entity Nullable allow-list. The destination
// carries manually curated data the source does not know about.
//
// # Optimistic verification
//
// The destination indexes new documents asynchronously: a successful POST
// may not be visible to the next GET. Ensurer therefore polls after
// creating, and past a bounded deadline it assumes success rather than
// failing the run. That assumption is deliberate and observable: such
// records end up in the distinct "unconfirmed" counter instead of
// "created".
package reconcile
