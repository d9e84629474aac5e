package relay

import (
	"github.com/fedorg/blendrelay/internal/adapters/osc"
	"github.com/fedorg/blendrelay/internal/adapters/udp"
	"github.com/fedorg/blendrelay/pkg/log"
)

// Option configures optional behavior of a Relay.
type Option func(*options)

type options struct {
	logger       Logger
	eventHandler EventHandler
	sink         EventSink
	transport    PacketTransport
	encoder      MessageEncoder
	decoder      PayloadDecoder
	plugins      []Plugin
}

func defaultOptions() options {
	return options{
		logger:    log.NewNoopLogger(),
		transport: udp.NewTransport(),
		encoder:   osc.NewEncoder(),
	}
}

// WithLogger sets the logger. If not provided, nothing is logged.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for relay events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithEventSink sets where received payloads are forwarded.
// If not provided, payloads are logged at info level.
func WithEventSink(sink EventSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithTransport replaces the UDP transport. Mostly useful in tests.
func WithTransport(transport PacketTransport) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithEncoder replaces the OSC message encoder.
func WithEncoder(encoder MessageEncoder) Option {
	return func(o *options) {
		o.encoder = encoder
	}
}

// WithPayloadDecoder sets how inbound datagrams are turned into event
// payloads. The default forwards valid UTF-8 as is.
func WithPayloadDecoder(decoder PayloadDecoder) Option {
	return func(o *options) {
		o.decoder = decoder
	}
}

// WithOSCDecoder makes the listener render inbound OSC messages as text
// and drop everything else.
func WithOSCDecoder() Option {
	return WithPayloadDecoder(osc.NewTextDecoder())
}

// WithPlugin registers a plugin. Plugins are initialized in registration
// order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
