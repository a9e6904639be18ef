// Package probe waits for the services behind resolved connection URLs to
// accept connections. Attempts for each service are paced by a token-bucket
// limiter and the whole wait is bounded by a timeout.
package probe
