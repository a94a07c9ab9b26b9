// Package adapters connects transports to the event broker.
package adapters

import (
	"github.com/agentstation/mapreview/internal/server/events"
	"github.com/agentstation/mapreview/internal/server/sse"
)

// SSESubscriber forwards broker events to SSE clients.
type SSESubscriber struct {
	broadcaster *sse.Broadcaster
}

// NewSSESubscriber creates a new SSE subscriber.
func NewSSESubscriber(broadcaster *sse.Broadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send implements events.Subscriber.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(sse.Event{
		Event: string(event.Type),
		ID:    event.ID,
		Data:  event.Data,
	})
	return nil
}

// Close implements events.Subscriber. The broadcaster owns its clients.
func (s *SSESubscriber) Close() error {
	return nil
}
