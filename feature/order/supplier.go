package order

import (
	"context"
	"errors"
	"fmt"

	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/ongsys"

	"go.uber.org/zap"
)

// ensureSupplier guarantees the order's embedded supplier exists before
// the stock entry references it. Orders without supplier data pass
// through; the stock entry does not link a supplier directly.
func (j *Job) ensureSupplier(ctx context.Context, rec ongsys.Record, log *zap.Logger) error {
	fornecedor := rec.Child("fornecedor")
	if fornecedor == nil {
		return nil
	}
	name := fornecedor.String("nome")
	if name == "" {
		return nil
	}
	taxID := fornecedor.String("documento")

	filters := []erpnext.Filter{erpnext.Eq("supplier_name", name)}
	if taxID != "" {
		filters = []erpnext.Filter{erpnext.Eq("tax_id", taxID)}
	}
	existing, err := j.dst.FindOne(ctx, "Supplier", filters)
	if err != nil {
		return fmt.Errorf("supplier lookup for %q: %w", name, err)
	}

	if existing != nil {
		if taxID != "" {
			j.reconcileTaxID(ctx, existing.Name(), name, taxID, log)
		}
		return nil
	}

	group := j.opts.DefaultSupplierGroup
	if j.ensurer.Ensure(ctx, "Supplier Group", group, map[string]any{
		"supplier_group_name": group,
	}).Failed() {
		return fmt.Errorf("supplier group %q could not be ensured", group)
	}

	payload := map[string]any{
		"supplier_name":  name,
		"supplier_group": group,
	}
	if taxID != "" {
		payload["tax_id"] = taxID
	}
	if j.ensurer.Ensure(ctx, "Supplier", name, payload).Failed() {
		return fmt.Errorf("supplier %q could not be ensured", name)
	}
	return nil
}

// reconcileTaxID fixes tax id drift on an existing supplier. Failures
// are logged, not fatal: the stock entry can still be booked.
func (j *Job) reconcileTaxID(ctx context.Context, docname, name, taxID string, log *zap.Logger) {
	doc, err := j.dst.GetDoc(ctx, "Supplier", docname, []string{"name", "tax_id"})
	if err != nil {
		if !errors.Is(err, erpnext.ErrNotFound) {
			log.Warn("failed to fetch supplier for tax id check",
				zap.String("supplier", name), zap.Error(err))
		}
		return
	}
	current, _ := doc["tax_id"].(string)
	if current == taxID {
		return
	}

	log.Info("updating supplier tax id",
		zap.String("supplier", name),
		zap.String("tax_id", taxID),
	)
	if err := j.dst.Update(ctx, "Supplier", docname, map[string]any{"tax_id": taxID}); err != nil {
		log.Warn("failed to update supplier tax id",
			zap.String("supplier", name), zap.Error(err))
	}
}
