// Package app wires configuration, logging, the statistics pipeline, the
// websocket hub and the HTTP API into a runnable application.
package app
