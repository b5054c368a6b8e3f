package cmd

import (
	"context"
	"errors"
	"fmt"

	"ongsys-sync/core/reconcile"
	"ongsys-sync/feature/costcenter"
	"ongsys-sync/feature/itemgroup"
	"ongsys-sync/feature/order"
	"ongsys-sync/feature/product"
	"ongsys-sync/feature/supplier"
	"ongsys-sync/feature/warehouse"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "Sync ONGSYS suppliers into Supplier documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		job := supplier.NewJob(rt.src, rt.dst, rt.ensurer, rt.cfg.Sync, rt.log)
		return rt.finish(ctx, job.Run(ctx))
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Sync ONGSYS products into Item documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		job := product.NewJob(rt.src, rt.dst, rt.ensurer, rt.cfg.Sync, rt.log)
		return rt.finish(ctx, job.Run(ctx))
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Create the Item Groups referenced by ONGSYS products",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		job := itemgroup.NewJob(rt.src, rt.dst, rt.ensurer, rt.log)
		return rt.finish(ctx, job.Run(ctx))
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Import finalized purchase orders as Stock Entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		table, err := rt.mappingTable()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		job := order.NewJob(rt.src, rt.dst, rt.ensurer, table, rt.cfg.Sync, rt.log)
		return rt.finish(ctx, job.Run(ctx))
	},
}

var costCentersCmd = &cobra.Command{
	Use:   "costcenters",
	Short: "Build the Cost Center tree from the mapping file",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		table, err := rt.mappingTable()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		job := costcenter.NewJob(rt.ensurer, table, rt.cfg.Sync, rt.log)
		return rt.finish(ctx, job.Run(ctx))
	},
}

var warehousesCmd = &cobra.Command{
	Use:   "warehouses",
	Short: "Create the Warehouses named in the mapping file",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		table, err := rt.mappingTable()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		job := warehouse.NewJob(rt.ensurer, table, rt.cfg.Sync, rt.log)
		return rt.finish(ctx, job.Run(ctx))
	},
}

// allCmd runs every job in dependency order. A failing job logs and the
// sequence continues; the command exits non-zero if anything failed.
var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every sync job in dependency order",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		table, err := rt.mappingTable()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		jobs := []struct {
			name string
			run  func(context.Context) *reconcile.Counters
		}{
			{"groups", itemgroup.NewJob(rt.src, rt.dst, rt.ensurer, rt.log).Run},
			{"products", product.NewJob(rt.src, rt.dst, rt.ensurer, rt.cfg.Sync, rt.log).Run},
			{"costcenters", costcenter.NewJob(rt.ensurer, table, rt.cfg.Sync, rt.log).Run},
			{"warehouses", warehouse.NewJob(rt.ensurer, table, rt.cfg.Sync, rt.log).Run},
			{"suppliers", supplier.NewJob(rt.src, rt.dst, rt.ensurer, rt.cfg.Sync, rt.log).Run},
			{"orders", order.NewJob(rt.src, rt.dst, rt.ensurer, table, rt.cfg.Sync, rt.log).Run},
		}

		var failed []error
		for _, j := range jobs {
			rt.log.Info("starting job", zap.String("job", j.name))
			if err := rt.finish(ctx, j.run(ctx)); err != nil {
				rt.log.Error("job finished with failures", zap.String("job", j.name), zap.Error(err))
				failed = append(failed, err)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d jobs had failures: %w", len(failed), len(jobs), errors.Join(failed...))
		}
		return nil
	},
}

func init() {
	syncCmd.AddCommand(suppliersCmd)
	syncCmd.AddCommand(productsCmd)
	syncCmd.AddCommand(groupsCmd)
	syncCmd.AddCommand(ordersCmd)
	syncCmd.AddCommand(costCentersCmd)
	syncCmd.AddCommand(warehousesCmd)
	syncCmd.AddCommand(allCmd)
}
