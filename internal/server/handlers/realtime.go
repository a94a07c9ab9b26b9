package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/agentstation/mapreview/internal/server/events"
	ws "github.com/agentstation/mapreview/internal/server/websocket"
)

// HandleWebSocket handles WebSocket connections at /api/updates/ws.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(uuid.NewString(), h.wsHub, conn)
	if !h.wsHub.Register(client) {
		_ = conn.Close()
		return
	}
	h.broker.Publish(events.ClientConnected, map[string]any{
		"transport": "websocket",
		"remote":    r.RemoteAddr,
	})

	go client.WritePump()
	go client.ReadPump()
}

// HandleSSE handles Server-Sent Events at /api/updates/stream.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
