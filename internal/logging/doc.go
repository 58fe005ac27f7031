// Package logging provides structured logging for pwrctl.
//
// This package wraps the zap logger with convenience functions for the
// logging patterns used throughout the tool. Command output on stdout is
// the primary user interface, so logging is silent unless explicitly
// enabled and always goes to stderr.
//
// # Configuration
//
// Verbosity is controlled by the PWRCTL_LOG_LEVEL environment variable
// ("debug", "info", "warn", "error"). When unset, a nop logger is
// installed and nothing is emitted. CLI entry points initialize with:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Warn("Skipping discovered device",
//	    zap.String("address", "192.168.1.50"),
//	    zap.Error(err),
//	)
//
// # Protocol Debugging
//
// LogDatagram dumps raw UDP datagrams (hex and ASCII) at debug level,
// which is the main tool for diagnosing device protocol issues.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
