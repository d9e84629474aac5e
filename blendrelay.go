// Package blendrelay relays facial blendshape values to a local OSC
// consumer over UDP and forwards text datagrams from that consumer back to
// the host application.
//
// Example usage:
//
//	err := blendrelay.SendBlendshapes(ctx, blendrelay.Batch{
//	    Values: map[string]float32{"jawOpen": 0.75},
//	    Port:   9000,
//	})
//
//	// Blocks until ctx is canceled.
//	err = blendrelay.StartUDPListener(ctx, sink)
//
// For plugins, lifecycle events or custom addresses use pkg/relay.
package blendrelay

import (
	"context"
	"sync/atomic"

	"github.com/fedorg/blendrelay/internal/adapters/osc"
	"github.com/fedorg/blendrelay/internal/adapters/udp"
	"github.com/fedorg/blendrelay/internal/app"
	"github.com/fedorg/blendrelay/internal/domain"
	"github.com/fedorg/blendrelay/internal/ports"
	"github.com/fedorg/blendrelay/pkg/log"
)

// Batch is a set of named blendshape values bound for one destination port.
type Batch = domain.Batch

// EventSink receives forwarded datagram payloads.
type EventSink = ports.EventSink

// EntryError reports the batch entry that stopped a send.
type EntryError = domain.EntryError

const (
	// EventUDPMessage is the event name payloads are forwarded under.
	EventUDPMessage = app.EventUDPMessage

	// DefaultListenAddr is where StartUDPListener binds.
	DefaultListenAddr = app.DefaultListenAddress

	// DefaultReceiveBufferSize is the largest datagram read whole.
	DefaultReceiveBufferSize = app.DefaultReceiveBufferSize

	// LoopbackHost is the host batches are sent to.
	LoopbackHost = app.DefaultTargetHost
)

var logger atomic.Value // log.Logger

func init() {
	logger.Store(log.Logger(log.NewNoopLogger()))
}

// SetLogger sets the logger used by SendBlendshapes and StartUDPListener.
// Nothing is logged by default.
func SetLogger(l log.Logger) {
	if l == nil {
		l = log.NewNoopLogger()
	}
	logger.Store(l)
}

func currentLogger() log.Logger {
	return logger.Load().(log.Logger)
}

// SendBlendshapes sends each entry of batch as one OSC message to
// 127.0.0.1:batch.Port. The first failing entry aborts the batch and is
// returned as an *EntryError; earlier entries are already on the wire.
func SendBlendshapes(ctx context.Context, batch Batch) error {
	s := app.NewSender(app.SenderConfig{TargetHost: LoopbackHost}, udp.NewTransport(), osc.NewEncoder(), currentLogger())
	return s.Send(ctx, batch)
}

// StartUDPListener binds DefaultListenAddr and forwards every UTF-8
// datagram to sink under EventUDPMessage. It blocks until ctx is canceled,
// then returns nil. A bind failure, a closed socket or a sink error is
// returned.
func StartUDPListener(ctx context.Context, sink EventSink) error {
	l := app.NewListener(app.ListenerConfig{}, udp.NewTransport(), nil, sink, currentLogger())
	return l.Run(ctx)
}
