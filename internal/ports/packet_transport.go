package ports

import (
	"context"
	"net"
)

// PacketConn is the subset of net.PacketConn used by the relay.
// Any net.PacketConn satisfies it.
type PacketConn interface {
	// ReadFrom blocks until a datagram arrives. Datagrams longer than p
	// are truncated.
	ReadFrom(p []byte) (n int, addr net.Addr, err error)

	// WriteTo sends p as a single datagram to addr.
	WriteTo(p []byte, addr net.Addr) (n int, err error)

	// LocalAddr returns the bound local address.
	LocalAddr() net.Addr

	// Close releases the socket and unblocks pending reads.
	Close() error
}

// PacketTransport binds datagram sockets.
type PacketTransport interface {
	// ListenPacket binds a socket on address ("host:port", port 0 for an
	// ephemeral port).
	ListenPacket(ctx context.Context, address string) (PacketConn, error)
}
