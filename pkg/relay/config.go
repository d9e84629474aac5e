package relay

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/fedorg/blendrelay/internal/app"
	"github.com/fedorg/blendrelay/internal/domain"
)

// Defaults re-exported for embedders.
const (
	DefaultListenAddr        = app.DefaultListenAddress
	DefaultTargetHost        = app.DefaultTargetHost
	DefaultReceiveBufferSize = app.DefaultReceiveBufferSize
	DefaultShutdownTimeout   = app.DefaultShutdownTimeout
	EventUDPMessage          = app.EventUDPMessage
)

// maxDatagramSize is the largest UDP payload over IPv4.
const maxDatagramSize = 65507

// Config holds the configuration of a Relay.
// Zero values are replaced by defaults in SetDefaults.
type Config struct {
	// ListenAddr is the local address the listener binds.
	// Default: 127.0.0.1:8884
	ListenAddr string

	// DisableListener turns the receive side off; Start then only runs plugins.
	DisableListener bool

	// TargetHost is the IP literal batches are sent to.
	// Default: 127.0.0.1
	TargetHost string

	// ReceiveBufferSize is the largest datagram the listener reads whole.
	// Longer datagrams are truncated. Default: 1024
	ReceiveBufferSize int

	// EventName is the event forwarded payloads are emitted under.
	// Default: udp-message
	EventName string

	// ShutdownTimeout bounds how long Stop waits for the listener.
	// Default: 5s
	ShutdownTimeout time.Duration
}

// SetDefaults fills zero fields with default values.
func (c *Config) SetDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.TargetHost == "" {
		c.TargetHost = DefaultTargetHost
	}
	if c.ReceiveBufferSize == 0 {
		c.ReceiveBufferSize = DefaultReceiveBufferSize
	}
	if c.EventName == "" {
		c.EventName = EventUDPMessage
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if addr, err := netip.ParseAddr(c.TargetHost); err != nil || !addr.Unmap().Is4() {
		return fmt.Errorf("%w: target host %q is not an IPv4 address", domain.ErrInvalidConfig, c.TargetHost)
	}
	if c.DisableListener {
		return nil
	}
	ap, err := netip.ParseAddrPort(c.ListenAddr)
	if err != nil {
		return fmt.Errorf("%w: listen address %q: %v", domain.ErrInvalidConfig, c.ListenAddr, err)
	}
	if !ap.Addr().Unmap().Is4() {
		return fmt.Errorf("%w: listen address %q is not IPv4", domain.ErrInvalidConfig, c.ListenAddr)
	}
	if c.ReceiveBufferSize <= 0 || c.ReceiveBufferSize > maxDatagramSize {
		return fmt.Errorf("%w: receive buffer size %d out of range 1..%d", domain.ErrInvalidConfig, c.ReceiveBufferSize, maxDatagramSize)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative shutdown timeout", domain.ErrInvalidConfig)
	}
	return nil
}
