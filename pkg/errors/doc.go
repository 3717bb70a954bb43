// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTransport,
//	    "failed to describe cluster",
//	    err,
//	    map[string]any{
//	        "cluster": clusterName,
//	        "attempt": attempt,
//	    },
//	)
//
// Callers branch on codes with IsCode rather than on message text:
//
//	if errors.IsCode(err, errors.ErrCodeCanceled) {
//	    os.Exit(2)
//	}
package errors
