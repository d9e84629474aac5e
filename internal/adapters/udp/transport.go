// Package udp binds IPv4 datagram sockets for the relay.
package udp

import (
	"context"
	"net"

	"github.com/fedorg/blendrelay/internal/ports"
)

// Network is the socket family used for every relay socket.
const Network = "udp4"

// Transport implements ports.PacketTransport on top of the OS network stack.
type Transport struct {
	lc net.ListenConfig
}

// NewTransport creates a UDP transport.
func NewTransport() *Transport {
	return &Transport{}
}

// ListenPacket binds a UDP socket on address.
func (t *Transport) ListenPacket(ctx context.Context, address string) (ports.PacketConn, error) {
	conn, err := t.lc.ListenPacket(ctx, Network, address)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
