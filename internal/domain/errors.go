package domain

import (
	"errors"
	"fmt"
)

// Domain errors can be checked with errors.Is. Transport and codec failures
// wrap one of these together with the underlying cause.
var (
	// ErrBind is returned when a local socket cannot be bound.
	ErrBind = errors.New("blendrelay: bind failed")

	// ErrAddress is returned when the destination address cannot be formed.
	ErrAddress = errors.New("blendrelay: invalid destination address")

	// ErrEncode is returned when a message cannot be serialized.
	ErrEncode = errors.New("blendrelay: encode failed")

	// ErrSend is returned when a datagram could not be written.
	ErrSend = errors.New("blendrelay: send failed")

	// ErrReceive is returned when the listener socket fails permanently.
	// Transient receive errors are logged and never returned.
	ErrReceive = errors.New("blendrelay: receive failed")

	// ErrForward is returned when the event sink rejects a payload.
	ErrForward = errors.New("blendrelay: forward failed")

	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("blendrelay: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("blendrelay: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("blendrelay: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("blendrelay: invalid configuration")
)

// Entry operations reported by EntryError.
const (
	OpEncode = "encode"
	OpSend   = "send"
)

// EntryError reports which batch entry stopped a send and at which step.
// Entries sent before the failure are not rolled back.
type EntryError struct {
	Op   string
	Name string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s message for %s: %v", e.Op, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
