// Package httputil provides HTTP support infrastructure: a file-based
// response cache with TTL expiry and a retry helper with exponential
// backoff for transient failures.
//
// The catalog client uses both so that repeated analysis runs against the
// same portal don't hammer the discovery API, and so that flaky 5xx
// responses don't abort a run unnecessarily.
package httputil
