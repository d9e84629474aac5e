package ports

// EventSink receives forwarded payloads on the host side.
type EventSink interface {
	// Emit delivers payload under the given event name.
	// An error stops the listener that produced the event.
	Emit(event, payload string) error
}
