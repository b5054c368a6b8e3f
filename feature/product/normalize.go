package product

import (
	"ongsys-sync/core/config"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/utils"
)

// ItemFields is requested on every existence lookup so the diff sees all
// compared fields in one round trip.
var ItemFields = []string{
	"name",
	"item_code",
	"item_name",
	"item_group",
	"stock_uom",
	"description",
	"manufacturer",
	"standard_rate",
	"country_of_origin",
	"disabled",
	"default_expense_account",
}

// ComparedFields is the item field list the diff runs over.
var ComparedFields = []string{
	"item_name",
	"item_group",
	"stock_uom",
	"description",
	"manufacturer",
	"standard_rate",
	"country_of_origin",
	"disabled",
	"default_expense_account",
}

// NullableFields may be cleared in the destination when the source has
// no value for them. Everything else treats an empty source value as "no
// opinion".
var NullableFields = []string{"standard_rate", "disabled", "country_of_origin"}

// Key returns the destination item code for a source product: the
// numeric id without leading zeros or a decimal part.
func Key(rec ongsys.Record) string {
	return utils.NormalizeCode(rec["id"])
}

// Normalize maps one source product to a destination Item payload.
// The second return is a skip reason; empty means the record proceeds.
func Normalize(rec ongsys.Record, countries CountrySet, opts config.Sync) (map[string]any, string) {
	code := Key(rec)
	if code == "" {
		return nil, "missing product id"
	}

	inactive := rec.Status() == "inativo"
	if inactive && opts.OnlyActive {
		return nil, "inactive product"
	}

	disabled := 0
	if opts.DisableInactive && inactive {
		disabled = 1
	}

	group := rec.String("grupo")
	if group == "" {
		group = opts.DefaultItemGroup
	}
	uom := rec.String("unidadeMedida")
	if uom == "" {
		uom = opts.DefaultUOM
	}

	target := map[string]any{
		"item_code":     code,
		"item_group":    group,
		"stock_uom":     uom,
		"is_stock_item": 1,
		"disabled":      disabled,
	}

	if name := rec.String("nomeProduto"); name != "" {
		target["item_name"] = utils.Truncate(name, 140)
	}
	if desc := rec.String("descricaoProduto"); desc != "" {
		target["description"] = utils.Truncate(desc, 1000)
	}
	if maker := rec.String("fabricante"); maker != "" {
		target["manufacturer"] = maker
	}
	if rate := utils.ToFloat(rec["valorCustoBase"]); rate != nil {
		target["standard_rate"] = *rate
	}
	if account := rec.String("contaPadraoPlanoFinanceiro"); account != "" {
		target["default_expense_account"] = account
	}
	if country := MapCountry(rec.String("origem"), countries); country != "" {
		target["country_of_origin"] = country
	}
	return target, ""
}
