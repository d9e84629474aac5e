package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
	"unicode/utf8"

	"github.com/fedorg/blendrelay/internal/domain"
	"github.com/fedorg/blendrelay/internal/ports"
	"github.com/fedorg/blendrelay/pkg/log"
)

// Listener defaults.
const (
	DefaultListenAddress = "127.0.0.1:8884"

	// DefaultReceiveBufferSize bounds a single receive. Longer datagrams
	// are truncated to this many bytes and the rest is lost.
	DefaultReceiveBufferSize = 1024

	// EventUDPMessage is the event name text payloads are forwarded under.
	EventUDPMessage = "udp-message"
)

// ListenerConfig contains configuration for the receiver flow.
type ListenerConfig struct {
	Address        string
	BufferSize     int
	EventName      string
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// TextDecoder accepts payloads that are valid UTF-8 and forwards them as is.
type TextDecoder struct{}

// Decode implements ports.PayloadDecoder.
func (TextDecoder) Decode(payload []byte) (string, bool) {
	if !utf8.Valid(payload) {
		return "", false
	}
	return string(payload), true
}

// Listener receives datagrams and forwards decodable payloads to a sink.
type Listener struct {
	config    ListenerConfig
	transport ports.PacketTransport
	decoder   ports.PayloadDecoder
	sink      ports.EventSink
	logger    log.Logger
}

// NewListener creates a listener. A nil decoder selects TextDecoder.
func NewListener(config ListenerConfig, transport ports.PacketTransport, decoder ports.PayloadDecoder, sink ports.EventSink, logger log.Logger) *Listener {
	if config.Address == "" {
		config.Address = DefaultListenAddress
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultReceiveBufferSize
	}
	if config.EventName == "" {
		config.EventName = EventUDPMessage
	}
	if config.BackoffInitial <= 0 {
		config.BackoffInitial = DefaultBackoffInitial
	}
	if config.BackoffMax <= 0 {
		config.BackoffMax = DefaultBackoffMax
	}
	if decoder == nil {
		decoder = TextDecoder{}
	}
	return &Listener{
		config:    config,
		transport: transport,
		decoder:   decoder,
		sink:      sink,
		logger:    logger,
	}
}

// Bind binds the listening socket. Failures wrap domain.ErrBind.
func (l *Listener) Bind(ctx context.Context) (ports.PacketConn, error) {
	conn, err := l.transport.ListenPacket(ctx, l.config.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrBind, l.config.Address, err)
	}
	return conn, nil
}

// Run binds and serves until ctx is canceled or a fatal error occurs.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := l.Bind(ctx)
	if err != nil {
		return err
	}
	return l.Serve(ctx, conn)
}

// Serve reads datagrams from conn until ctx is canceled, then closes conn
// and returns nil. Transient receive errors are logged and retried after a
// backoff. Payloads rejected by the decoder are dropped silently. A sink
// error stops the loop and is returned wrapped in domain.ErrForward.
func (l *Listener) Serve(ctx context.Context, conn ports.PacketConn) error {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	l.logger.Info("listening",
		log.Any("addr", conn.LocalAddr()),
		log.Int("buffer_size", l.config.BufferSize),
	)

	buf := make([]byte, l.config.BufferSize)
	bo := newBackoff(l.config.BackoffInitial, l.config.BackoffMax)

	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("%w: %w", domain.ErrReceive, err)
			}
			l.logger.Warn("receive failed", log.Err(err))
			if bo.Wait(ctx) != nil {
				return nil
			}
			continue
		}
		bo.Reset()

		text, ok := l.decoder.Decode(buf[:n])
		if !ok {
			continue
		}
		if err := l.sink.Emit(l.config.EventName, text); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrForward, err)
		}
		l.logger.Debug("forwarded datagram",
			log.Any("from", from),
			log.Int("bytes", n),
		)
	}
}
