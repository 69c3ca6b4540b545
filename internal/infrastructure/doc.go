// Package infrastructure provides cross-cutting runtime concerns: the
// application-wide structured logger with trace-id propagation, and the
// Prometheus application metrics.
package infrastructure
