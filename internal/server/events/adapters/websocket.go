package adapters

import (
	"github.com/agentstation/mapreview/internal/server/events"
	ws "github.com/agentstation/mapreview/internal/server/websocket"
)

// WebSocketSubscriber forwards broker events to WebSocket clients.
type WebSocketSubscriber struct {
	hub *ws.Hub
}

// NewWebSocketSubscriber creates a new WebSocket subscriber.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send implements events.Subscriber.
func (w *WebSocketSubscriber) Send(event events.Event) error {
	w.hub.Broadcast(ws.Message{
		ID:        event.ID,
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
	return nil
}

// Close implements events.Subscriber. The hub owns its clients.
func (w *WebSocketSubscriber) Close() error {
	return nil
}
