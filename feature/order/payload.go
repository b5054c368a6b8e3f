package order

import (
	"ongsys-sync/core/config"
	"ongsys-sync/core/mapping"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/utils"

	"go.uber.org/zap"
)

// Eligible reports whether a source order becomes a stock entry: only
// finalized product orders do.
func Eligible(rec ongsys.Record) bool {
	return rec.String("tipoPedido") == "Produto" &&
		rec.String("statusPedido") == "Ordem finalizada"
}

// Key returns the source order id.
func Key(rec ongsys.Record) string {
	return rec.String("idPedido")
}

// reference names the destination documents one entry line points at.
// All three must exist before the entry is posted; the API would reject
// the whole document otherwise.
type reference struct {
	ItemCode   string
	CostCenter string
	Warehouse  string
}

// buildEntry assembles the Material Receipt payload for one order.
// Lines with no quantity, no product or no usable cost-center mapping
// are dropped individually; the references of the surviving lines are
// returned for existence verification.
func buildEntry(rec ongsys.Record, table *mapping.Table, opts config.Sync, log *zap.Logger) (map[string]any, []reference) {
	entry := map[string]any{
		"doctype":          "Stock Entry",
		"stock_entry_type": "Material Receipt",
		"posting_date":     rec.String("dataPedido"),
		"docstatus":        1,
		"company":          opts.Company,
		"custom_id_ongsys": Key(rec),
	}

	var items []map[string]any
	var refs []reference
	for _, line := range rec.Children("itensPedido") {
		qty := utils.ToFloat(line["quantidade"])
		if qty == nil || *qty <= 0 {
			continue
		}
		if line["idProduto"] == nil {
			continue
		}
		itemCode := utils.NormalizeCode(line["idProduto"])

		ccCode := line.String("centroCusto")
		if ccCode == "" {
			log.Warn("order line without cost center, dropping line",
				zap.String("order", Key(rec)),
				zap.String("item", itemCode),
			)
			continue
		}
		warehouse, ok := table.WarehouseFor(ccCode)
		if !ok {
			log.Warn("cost center not in mapping file, dropping line",
				zap.String("order", Key(rec)),
				zap.String("cost_center", ccCode),
			)
			continue
		}
		rule := mapping.Rule{CostCenter: ccCode, Warehouse: warehouse}

		items = append(items, map[string]any{
			"item_code":   itemCode,
			"qty":         *qty,
			"t_warehouse": warehouse,
			"cost_center": rule.DocName(),
		})
		refs = append(refs, reference{
			ItemCode:   itemCode,
			CostCenter: rule.DocName(),
			Warehouse:  warehouse,
		})
	}

	entry["items"] = items
	return entry, refs
}
