// Package logging provides structured logging for artframe.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is configured, so CLI output stays readable.
//
// # Log Levels
//
//   - Debug: request IDs, workflow transitions
//   - Info: completed backend requests, settings changes
//   - Warn: failed backend requests, watcher errors
//   - Error: unexpected failures
//
// # Output
//
// One-shot CLI commands log to stderr in console format, keeping stdout for
// results. The interactive panel owns the terminal, so it logs to a
// rotating file (lumberjack):
//
//	if err := logging.Initialize(logging.Options{
//	    Level: "debug",
//	    File:  "/home/me/.config/artframe/artframe.log",
//	}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Environment
//
// ARTFRAME_LOG_LEVEL and ARTFRAME_LOG_FILE are consulted when the
// corresponding option is empty.
package logging
