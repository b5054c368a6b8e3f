package supplier

import (
	"ongsys-sync/core/config"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/utils"
)

// ComparedFields is the supplier field list the diff runs over. No field
// is clearable: an empty source value never blanks a curated supplier.
var ComparedFields = []string{
	"supplier_name",
	"supplier_group",
	"supplier_type",
	"tax_id",
	"disabled",
}

// Key returns the natural key of a source supplier: the tax id when
// present, the company name otherwise.
func Key(rec ongsys.Record) string {
	if id := TaxID(rec); id != "" {
		return id
	}
	return rec.FirstString("nomeEmpresa", "razaoSocial")
}

// TaxID returns the supplier's tax document number, trying the field
// names the source spreads it over.
func TaxID(rec ongsys.Record) string {
	return rec.FirstString("documento", "cnpj", "cpf")
}

// Normalize maps one source supplier to a destination payload.
// The second return is a skip reason; empty means the record proceeds.
func Normalize(rec ongsys.Record, opts config.Sync) (map[string]any, string) {
	name := rec.FirstString("nomeEmpresa", "razaoSocial")
	if name == "" {
		return nil, "missing company name"
	}

	inactive := rec.Status() == "inativo"
	if inactive && opts.OnlyActive {
		return nil, "inactive supplier"
	}

	target := map[string]any{
		"supplier_name":  utils.Truncate(name, 140),
		"supplier_group": opts.DefaultSupplierGroup,
		"supplier_type":  opts.DefaultSupplierType,
	}
	if id := TaxID(rec); id != "" {
		target["tax_id"] = id
	}
	if opts.DisableInactive {
		disabled := 0
		if inactive {
			disabled = 1
		}
		target["disabled"] = disabled
	}
	return target, ""
}
