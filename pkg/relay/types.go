package relay

import (
	"github.com/fedorg/blendrelay/internal/app"
	"github.com/fedorg/blendrelay/internal/domain"
	"github.com/fedorg/blendrelay/internal/ports"
	"github.com/fedorg/blendrelay/pkg/log"
)

type (
	// Batch is a set of named values bound for one destination port.
	Batch = domain.Batch

	// Message is one addressed value.
	Message = domain.Message

	// EntryError reports the batch entry that stopped a send.
	EntryError = domain.EntryError

	// EventSink receives forwarded payloads.
	EventSink = ports.EventSink

	// PayloadDecoder selects and renders inbound datagrams for the sink.
	PayloadDecoder = ports.PayloadDecoder

	// MessageEncoder serializes outbound messages.
	MessageEncoder = ports.MessageEncoder

	// PacketTransport binds datagram sockets.
	PacketTransport = ports.PacketTransport

	// PacketConn is a bound datagram socket.
	PacketConn = ports.PacketConn

	// Logger is the structured logging interface.
	Logger = log.Logger

	// LogField is a structured log field.
	LogField = log.Field
)

// Errors returned by the relay. Check them with errors.Is.
var (
	ErrBind            = domain.ErrBind
	ErrAddress         = domain.ErrAddress
	ErrEncode          = domain.ErrEncode
	ErrSend            = domain.ErrSend
	ErrReceive         = domain.ErrReceive
	ErrForward         = domain.ErrForward
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
)

// NewBatch creates an empty batch for port.
func NewBatch(port uint16) Batch {
	return domain.NewBatch(port)
}

// State is the lifecycle state of a Relay.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	return app.State(s).String()
}

func convertState(s app.State) State {
	switch s {
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
