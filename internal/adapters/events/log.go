package events

import "github.com/fedorg/blendrelay/pkg/log"

// LogSink records forwarded events at info level.
type LogSink struct {
	logger log.Logger
}

// NewLogSink creates a sink logging through logger.
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit implements ports.EventSink. It never fails.
func (s *LogSink) Emit(event, payload string) error {
	s.logger.Info("event",
		log.String("event", event),
		log.String("payload", payload),
	)
	return nil
}

// SinkFunc adapts an ordinary function to ports.EventSink.
type SinkFunc func(event, payload string) error

// Emit calls f(event, payload).
func (f SinkFunc) Emit(event, payload string) error {
	return f(event, payload)
}
