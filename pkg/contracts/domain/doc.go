// Package domain defines the data contracts shared between the statistics
// pipeline and its consumers: raw source rows, the enriched per-entity daily
// record, and the unified output row.
package domain
