package ports

import "github.com/fedorg/blendrelay/internal/domain"

// MessageEncoder converts a message into the bytes of one datagram.
// Implementations must be safe for concurrent use.
type MessageEncoder interface {
	// Encode returns the wire form of msg.
	// Failures wrap domain.ErrEncode.
	Encode(msg domain.Message) ([]byte, error)
}
