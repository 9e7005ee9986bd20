// Package httputil provides HTTP helpers for registry clients.
//
// # Retry
//
// [Retry] re-runs a request function with exponential backoff while it
// fails with a [RetryableError]. Registry clients wrap transient failures
// (connection errors, timeouts, 5xx responses) with [Retryable]; permanent
// failures such as 404 are returned as-is and never retried:
//
//	err := httputil.Retry(ctx, httputil.Policy{Attempts: 3, Delay: time.Second}, func() error {
//	    return client.get(ctx, url, &doc)
//	})
//
// Defaults ([DefaultPolicy]):
//
//   - Attempts: 3
//   - Initial delay: 1 second, doubling after each failure
//
// Results are never cached: every resolution run sees live registry data.
package httputil
