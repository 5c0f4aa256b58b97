// Package errors provides structured error types for better observability
// and programmatic error handling across nodestat.
//
// The codes mirror the failure taxonomy of the sampling loop:
//
//   - SOURCE_UNAVAILABLE: a pseudo-file or command could not be read this cycle
//   - COUNTER_RESET: a monotonic counter went backwards between snapshots
//   - HELPER_UNAVAILABLE: the hardware-counter helper cannot run on this host
//   - PARSE_FAILURE: a source or the helper output had an unexpected shape
//
// None of these are fatal to the polling loop.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeSourceUnavailable,
//	    "failed to read diskstats",
//	    err,
//	    map[string]any{
//	        "source": "disk",
//	        "path":   "/proc/diskstats",
//	    },
//	)
package errors
