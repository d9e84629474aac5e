package app

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/fedorg/blendrelay/internal/domain"
	"github.com/fedorg/blendrelay/internal/ports"
	"github.com/fedorg/blendrelay/pkg/log"
)

// Sender defaults.
const (
	DefaultTargetHost    = "127.0.0.1"
	DefaultSenderAddress = "0.0.0.0:0"
)

// SenderConfig contains configuration for the sender flow.
type SenderConfig struct {
	// TargetHost is the IP literal datagrams are sent to.
	TargetHost string

	// LocalAddress is bound for each batch; port 0 picks an ephemeral port.
	LocalAddress string
}

// Sender transmits a batch as one datagram per entry.
type Sender struct {
	config    SenderConfig
	transport ports.PacketTransport
	encoder   ports.MessageEncoder
	logger    log.Logger
}

// NewSender creates a sender with the given dependencies.
func NewSender(config SenderConfig, transport ports.PacketTransport, encoder ports.MessageEncoder, logger log.Logger) *Sender {
	if config.TargetHost == "" {
		config.TargetHost = DefaultTargetHost
	}
	if config.LocalAddress == "" {
		config.LocalAddress = DefaultSenderAddress
	}
	return &Sender{
		config:    config,
		transport: transport,
		encoder:   encoder,
		logger:    logger,
	}
}

// Destination returns the address datagrams for port are sent to.
// It fails with domain.ErrAddress for port 0 or a host that is not an IPv4
// literal; every relay socket is udp4.
func (s *Sender) Destination(port uint16) (*net.UDPAddr, error) {
	if port == 0 {
		return nil, fmt.Errorf("%w: port 0", domain.ErrAddress)
	}
	raw := net.JoinHostPort(s.config.TargetHost, strconv.Itoa(int(port)))
	ap, err := netip.ParseAddrPort(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAddress, err)
	}
	addr := ap.Addr().Unmap()
	if !addr.Is4() {
		return nil, fmt.Errorf("%w: %s is not an IPv4 address", domain.ErrAddress, ap.Addr())
	}
	return net.UDPAddrFromAddrPort(netip.AddrPortFrom(addr, ap.Port())), nil
}

// Send encodes and writes every entry of batch on a socket owned by this call.
//
// The first entry that fails to encode or send stops the batch and is
// reported as a *domain.EntryError. Entries already written stay sent.
// Entry order is unspecified.
func (s *Sender) Send(ctx context.Context, batch domain.Batch) error {
	dest, err := s.Destination(batch.Port)
	if err != nil {
		return err
	}
	if batch.Empty() {
		return nil
	}

	conn, err := s.transport.ListenPacket(ctx, s.config.LocalAddress)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBind, err)
	}
	defer conn.Close()

	start := time.Now()
	for name, value := range batch.Values {
		if err := ctx.Err(); err != nil {
			return err
		}

		buf, err := s.encoder.Encode(domain.NewMessage(name, value))
		if err != nil {
			return &domain.EntryError{Op: domain.OpEncode, Name: name, Err: err}
		}
		if _, err := conn.WriteTo(buf, dest); err != nil {
			return &domain.EntryError{Op: domain.OpSend, Name: name, Err: fmt.Errorf("%w: %w", domain.ErrSend, err)}
		}
	}

	s.logger.Debug("sent batch",
		log.Int("entries", batch.Size()),
		log.Any("target", dest),
		log.Duration("duration", time.Since(start)),
	)
	return nil
}
