package ongsys

import (
	"strings"

	"ongsys-sync/core/utils"
)

// Record is one untyped row returned by an ONGSYS listing endpoint.
// Field names vary per entity, so access goes through typed accessors
// instead of a modeled schema.
type Record map[string]any

// String returns the trimmed string value of a field, or "" if absent.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(utils.ToString(v))
}

// FirstString returns the first non-empty value among the given fields.
// Several entities spread their natural key over alternative field names
// (documento/cnpj/cpf, nomeEmpresa/razaoSocial).
func (r Record) FirstString(keys ...string) string {
	for _, key := range keys {
		if v := r.String(key); v != "" {
			return v
		}
	}
	return ""
}

// Status returns the lowercase trimmed status field.
func (r Record) Status() string {
	return strings.ToLower(r.String("status"))
}

// Child returns a nested object field as a Record.
func (r Record) Child(key string) Record {
	if m, ok := r[key].(map[string]any); ok {
		return Record(m)
	}
	return nil
}

// Children returns a nested array field as a slice of Records,
// skipping elements that are not objects.
func (r Record) Children(key string) []Record {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, el := range raw {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}
