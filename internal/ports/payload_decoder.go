package ports

// PayloadDecoder turns an inbound datagram into text for the event sink.
type PayloadDecoder interface {
	// Decode returns the text for payload and true, or false when the
	// payload should be dropped without being reported.
	// payload is only valid for the duration of the call.
	Decode(payload []byte) (string, bool)
}
