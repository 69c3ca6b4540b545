package http

import (
	"log/slog"
	"net/http"

	"epipulse/internal/config"
	ws "epipulse/internal/websocket"
)

// WebSocketHandler upgrades dashboard clients onto the refresh hub.
type WebSocketHandler struct {
	hub    *ws.Hub
	cfg    config.WebSocketConfig
	logger *slog.Logger
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(hub *ws.Hub, cfg config.WebSocketConfig, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		cfg:    cfg,
		logger: logger.With(slog.String("handler", "websocket")),
	}
}

// Handle handles GET /ws
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := ws.ServeWS(h.hub, h.cfg, w, r); err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()))
	}
}
