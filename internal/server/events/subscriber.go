package events

// Subscriber receives events from the broker.
type Subscriber interface {
	// Send delivers an event. It must not block for long.
	Send(Event) error
	// Close releases the subscriber.
	Close() error
}
