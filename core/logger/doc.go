// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports console output for
// interactive CLI runs and JSON output for scheduled executions.
//
// # Run Correlation
//
// Every sync invocation is assigned a run id. The WithRun helper attaches
// the run id and job name to the logger so all entries produced by one
// batch run can be correlated during manual reconciliation.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: console (development) or json (production)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	l := logger.WithRun(log, runID, "products")
//	l.Info("sync started")
package logger
