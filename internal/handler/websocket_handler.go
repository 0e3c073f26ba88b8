package handler

import (
	"items-backend/internal/realtime"

	"github.com/labstack/echo/v4"
)

// WebSocketHandler handles WebSocket connection upgrades for the item
// event feed.
type WebSocketHandler struct {
	hub *realtime.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleConnections upgrades HTTP requests to WebSocket connections.
// ServeWsUpgrade takes over the connection; on upgrade failure it writes the
// HTTP error itself, so this handler always returns nil to Echo.
func (h *WebSocketHandler) HandleConnections(c echo.Context) error {
	realtime.ServeWsUpgrade(h.hub, c.Response().Writer, c.Request())
	return nil
}
