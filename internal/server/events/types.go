// Package events fans review activity out to the real-time transports.
//
// Handlers publish to a Broker; subscribers adapt the event stream to a
// transport (WebSocket, SSE) so a dashboard or a second terminal can follow
// a review session as decisions are saved.
package events

import "github.com/agentstation/utc"

// EventType names an event.
type EventType string

// Event types.
const (
	// ReviewSaved is published after a decision is persisted.
	ReviewSaved EventType = "review.saved"
	// QueueCompleted is published when the last pending record is decided.
	QueueCompleted EventType = "queue.completed"
	// ClientConnected is published when a real-time client attaches.
	ClientConnected EventType = "client.connected"
)

// Event is one published event.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp utc.Time  `json:"timestamp"`
	Data      any       `json:"data"`
}
