package relay

import (
	"time"

	"github.com/fedorg/blendrelay/internal/app"
)

// StateChangeEvent is delivered on every lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// BatchSentEvent is delivered after a batch was sent in full.
type BatchSentEvent struct {
	Entries  int
	Port     uint16
	Duration time.Duration
}

// SendErrorEvent is delivered when a batch send fails. Entry is empty when
// the failure was not tied to one entry (bind or address errors).
type SendErrorEvent struct {
	Error error
	Entry string
	Port  uint16
}

// EventHandler receives relay notifications. Calls are synchronous; keep
// them short.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnBatchSent(event BatchSentEvent)
	OnSendError(event SendErrorEvent)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle
// only some events.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}
func (BaseEventHandler) OnBatchSent(BatchSentEvent)     {}
func (BaseEventHandler) OnSendError(SendErrorEvent)     {}

// eventEmitterWrapper adapts EventHandler to app.EventEmitter.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) onBatchSent(entries int, port uint16, d time.Duration) {
	if e.handler == nil {
		return
	}
	e.handler.OnBatchSent(BatchSentEvent{Entries: entries, Port: port, Duration: d})
}

func (e *eventEmitterWrapper) onSendError(err error, entry string, port uint16) {
	if e.handler == nil {
		return
	}
	e.handler.OnSendError(SendErrorEvent{Error: err, Entry: entry, Port: port})
}
