package cmd

import (
	"fmt"
	"os"

	"ongsys-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ongsys-sync",
	Short: "ONGSYS to ERPNext synchronization",
	Long: `ongsys-sync mirrors suppliers, products, purchase orders and their
supporting documents from the ONGSYS REST API into an ERPNext instance.
Every job is an idempotent single pass: safe to re-run, with all state
kept in the destination.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
