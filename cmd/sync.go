package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ongsys-sync/core/config"
	"ongsys-sync/core/erpnext"
	"ongsys-sync/core/logger"
	"ongsys-sync/core/mapping"
	"ongsys-sync/core/ongsys"
	"ongsys-sync/core/reconcile"
	"ongsys-sync/core/runlog"
	"ongsys-sync/core/snapshot"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd groups the individual synchronization jobs.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run synchronization jobs against ERPNext",
}

func init() {
	RootCmd.AddCommand(syncCmd)
}

// runtime bundles everything a sync job needs: configuration, logging,
// both API clients and the optional audit sinks.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	src     *ongsys.Client
	dst     erpnext.Client
	ensurer *reconcile.Ensurer
	store   *runlog.Store
}

// newRuntime loads configuration and wires the shared dependencies.
// Missing credentials are a hard error before any request is made.
func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	rt := &runtime{
		cfg: cfg,
		log: log,
		src: ongsys.NewClient(cfg.Source, log),
		dst: erpnext.NewClient(cfg.ERPNext, log),
	}
	rt.ensurer = reconcile.NewEnsurer(rt.dst, log,
		time.Duration(cfg.Sync.MaxWaitCreateSeconds)*time.Second,
		time.Duration(cfg.Sync.VerifyIntervalSeconds)*time.Second,
	)

	// Run history is optional; a broken audit database never blocks a sync.
	if cfg.RunLog.Enabled {
		store, err := runlog.Connect(cfg.RunLog)
		if err != nil {
			log.Warn("run-history database unavailable", zap.Error(err))
		} else {
			rt.store = store
		}
	}

	// Snapshot archiving is optional as well.
	if cfg.Snapshot.Enabled {
		client, err := snapshot.NewClient(cfg.Snapshot)
		if err != nil {
			log.Warn("snapshot storage unavailable", zap.Error(err))
		} else {
			archiver := snapshot.NewArchiver(client, cfg.Snapshot.Bucket, log)
			if err := archiver.EnsureBucket(context.Background(), cfg.Snapshot.Region); err != nil {
				log.Warn("snapshot bucket unavailable", zap.Error(err))
			} else {
				rt.src.Observe(func(endpoint string, ext *ongsys.Extraction) {
					job := strings.Trim(endpoint, "/")
					if err := archiver.Archive(context.Background(), uuid.NewString(), job, ext); err != nil {
						log.Warn("snapshot archiving failed", zap.Error(err))
					}
				})
			}
		}
	}

	return rt, nil
}

// mappingTable loads the cost-center to warehouse mapping file.
func (rt *runtime) mappingTable() (*mapping.Table, error) {
	table, err := mapping.Load(rt.cfg.Sync.MappingFile)
	if err != nil {
		return nil, fmt.Errorf("mapping file %q: %w", rt.cfg.Sync.MappingFile, err)
	}
	return table, nil
}

// finish records the run and converts failures into a non-zero exit.
func (rt *runtime) finish(ctx context.Context, counters *reconcile.Counters) error {
	if rt.store != nil {
		if err := rt.store.Save(ctx, counters); err != nil {
			rt.log.Warn("failed to record run history", zap.Error(err))
		}
	}
	_ = rt.log.Sync()
	if counters.Failed > 0 {
		return fmt.Errorf("%s: %d records failed", counters.Job, counters.Failed)
	}
	return nil
}
