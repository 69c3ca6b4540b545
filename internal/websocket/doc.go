// Package websocket implements the hub that pushes dataset refresh events to
// connected dashboard clients.
package websocket
