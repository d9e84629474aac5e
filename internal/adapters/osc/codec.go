// Package osc encodes relay messages as Open Sound Control packets.
package osc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hypebeast/go-osc/osc"

	"github.com/fedorg/blendrelay/internal/domain"
)

// ErrNotMessage is returned by Decode for payloads that are not a single
// OSC message carrying one float32 argument.
var ErrNotMessage = errors.New("osc: not a single-float message")

// Encoder implements ports.MessageEncoder.
type Encoder struct{}

// NewEncoder creates an OSC encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode serializes msg as one OSC message with a single ",f" argument.
func (Encoder) Encode(msg domain.Message) ([]byte, error) {
	// OSC strings are NUL terminated.
	if strings.IndexByte(msg.Address, 0) >= 0 {
		return nil, fmt.Errorf("%w: address %q contains NUL", domain.ErrEncode, msg.Address)
	}
	b, err := osc.NewMessage(msg.Address, msg.Value).MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncode, err)
	}
	return b, nil
}

// Decode parses a datagram produced by Encode.
func Decode(b []byte) (domain.Message, error) {
	m, err := parseMessage(b)
	if err != nil {
		return domain.Message{}, err
	}
	if len(m.Arguments) != 1 {
		return domain.Message{}, fmt.Errorf("%w: %d arguments", ErrNotMessage, len(m.Arguments))
	}
	v, ok := m.Arguments[0].(float32)
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: argument is %T", ErrNotMessage, m.Arguments[0])
	}
	return domain.Message{Address: m.Address, Value: v}, nil
}

func parseMessage(b []byte) (*osc.Message, error) {
	packet, err := osc.ParsePacket(string(b))
	if err != nil {
		return nil, fmt.Errorf("osc: parse packet: %w", err)
	}
	m, ok := packet.(*osc.Message)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMessage, packet)
	}
	return m, nil
}

// TextDecoder implements ports.PayloadDecoder for OSC traffic. It renders a
// message as its address followed by its arguments, space separated.
// Payloads that are not OSC messages are dropped.
type TextDecoder struct{}

// NewTextDecoder creates an OSC text decoder.
func NewTextDecoder() *TextDecoder {
	return &TextDecoder{}
}

// Decode implements ports.PayloadDecoder.
func (TextDecoder) Decode(payload []byte) (string, bool) {
	m, err := parseMessage(payload)
	if err != nil {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString(m.Address)
	for _, arg := range m.Arguments {
		sb.WriteByte(' ')
		sb.WriteString(formatArg(arg))
	}
	return sb.String(), true
}

func formatArg(arg interface{}) string {
	switch v := arg.(type) {
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}
