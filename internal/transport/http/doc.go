// Package http contains the HTTP handlers for the dashboard API: entity
// listing, series queries against the precomputed combined table, dataset
// reload, health, metrics, and the websocket upgrade.
package http
