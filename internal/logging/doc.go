// Package logging provides structured logging for clinicbook.
//
// This package wraps zap with convenience functions for the logging patterns
// used throughout the client and the API simulator. Logging is silent unless
// CLINICBOOK_LOG_LEVEL is set: the interactive wizard owns the terminal, so
// nothing may write to it uninvited.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (request/response traces)
//   - Info: Normal operations (API calls, simulator traffic)
//   - Warn: Non-fatal issues (stale responses discarded, fallbacks)
//   - Error: Fatal issues (startup failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Appointment created",
//	    zap.String("appointment_id", "42"),
//	    zap.String("doctor_id", "7"),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Output goes to stderr in console format so piped command output stays
// clean.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
