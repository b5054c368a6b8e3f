// Package supplier syncs ONGSYS suppliers into ERPNext Supplier
// documents. Identity is the tax document number with a name fallback,
// and inactive source suppliers are either mirrored as disabled or
// skipped entirely depending on configuration.
package supplier
