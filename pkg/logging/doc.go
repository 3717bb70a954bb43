// Package logging provides structured logging utilities for dataeng components.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every command logs the same way. Logs are JSON on stderr, tagged with
// the module name and version, and include source location at debug level.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: per-attempt poll observations, HTTP request tracing
//   - INFO: lifecycle transitions such as cluster created or job completed (default)
//   - WARN/WARNING: terminal failure statuses, retries by the operator
//   - ERROR: transport failures and aborted workflows
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("dataeng", version)
//	    slog.Info("polling cluster", "cluster", name, "interval", interval)
//	}
//
// Setting an explicit level, as the CLI does after parsing --log-level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("dataeng", version, "debug")
//
// # Environment Configuration
//
// LOG_LEVEL controls verbosity when no explicit level is given:
//
//	LOG_LEVEL=debug dataeng cluster wait --name Sample-Spark2
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "resource reached terminal status",
//	    "module": "dataeng",
//	    "version": "v1.0.0",
//	    "target": "Sample-Spark2",
//	    "status": "CREATED"
//	}
package logging
