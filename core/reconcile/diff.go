package reconcile

import (
	"strings"

	"ongsys-sync/core/utils"
)

// ChangeSet maps field name to new value: the minimal payload needed to
// bring a destination record in line with a normalized target.
type ChangeSet map[string]any

// FieldSpec fixes which fields of an entity participate in diffing.
type FieldSpec struct {
	// Compared is the ordered list of field names to diff.
	Compared []string
	// Nullable lists the fields for which an empty target value is an
	// instruction to clear the destination value. For every other field a
	// nil target means "no opinion": the sync must never blank out a
	// manually curated destination value just because the source lacks
	// data.
	Nullable []string
}

func (s FieldSpec) isNullable(field string) bool {
	for _, f := range s.Nullable {
		if f == field {
			return true
		}
	}
	return false
}

// Diff compares target against current over the spec's field list and
// returns only the fields whose string-trimmed values differ.
func Diff(target, current map[string]any, spec FieldSpec) ChangeSet {
	changes := ChangeSet{}
	for _, field := range spec.Compared {
		newVal, hasNew := lookup(target, field)
		oldVal, _ := lookup(current, field)

		if equalTrimmed(newVal, oldVal) {
			continue
		}
		// Asymmetric-null policy: an empty target only wins for fields
		// explicitly allow-listed as clearable.
		if (newVal == nil || !hasNew) && !spec.isNullable(field) {
			continue
		}
		changes[field] = newVal
	}
	return changes
}

func lookup(m map[string]any, field string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// equalTrimmed compares two values by their trimmed string renderings,
// with nil equal only to nil or the empty string.
func equalTrimmed(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	return strings.TrimSpace(utils.ToString(a)) == strings.TrimSpace(utils.ToString(b))
}
