package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is the JSON form of one forwarded event.
type Record struct {
	ID         string    `json:"id"`
	Event      string    `json:"event"`
	Payload    string    `json:"payload"`
	ReceivedAt time.Time `json:"received_at"`
}

// JSONLinesSink writes each event as a single JSON line.
// It is safe for concurrent use.
type JSONLinesSink struct {
	mu    sync.Mutex
	enc   *json.Encoder
	now   func() time.Time
	newID func() string
}

// NewJSONLinesSink creates a sink writing to w.
func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	return &JSONLinesSink{
		enc:   json.NewEncoder(w),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Emit implements ports.EventSink.
func (s *JSONLinesSink) Emit(event, payload string) error {
	rec := Record{
		ID:         s.newID(),
		Event:      event,
		Payload:    payload,
		ReceivedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("write event %s: %w", event, err)
	}
	return nil
}
