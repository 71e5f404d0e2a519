// Package logger builds the zap logger shared by the service and the CLI.
//
// Every entry carries service=presence-sync. Two helpers narrow a logger to
// one unit of work:
//
//   - WithRayID tags a request with the ray id set by the rayid middleware.
//   - WithPass tags a reconciliation pass with its pass id, so the create,
//     delete and sort lines of one pass can be grepped together.
//
// log.format selects json or console output and log.level the minimum level.
//
//	log, _ := logger.New(&cfg.Log)
//	logger.WithPass(log, passID).Info("Presence pass applied")
package logger
