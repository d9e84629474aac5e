package events

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fedorg/blendrelay/pkg/log"
)

func TestJSONLinesSink_Emit(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONLinesSink(&buf)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return fixed }

	if err := sink.Emit("udp-message", "hello"); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if err := sink.Emit("udp-message", `{"quoted":"json"}`); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}

	var rec Record
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Event != "udp-message" || rec.Payload != "hello" {
		t.Errorf("record = %+v", rec)
	}
	if !rec.ReceivedAt.Equal(fixed) {
		t.Errorf("ReceivedAt = %v, want %v", rec.ReceivedAt, fixed)
	}
	if len(rec.ID) != 36 {
		t.Errorf("ID = %q, want a uuid", rec.ID)
	}

	var second Record
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if second.Payload != `{"quoted":"json"}` {
		t.Errorf("Payload = %q", second.Payload)
	}
	if second.ID == rec.ID {
		t.Error("records share an id")
	}
}

func TestJSONLinesSink_ConcurrentEmit(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONLinesSink(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sink.Emit("udp-message", strings.Repeat("x", 100))
		}()
	}
	wg.Wait()

	count := 0
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("interleaved output: %v", err)
		}
		count++
	}
	if count != 20 {
		t.Errorf("got %d records, want 20", count)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed pipe") }

func TestJSONLinesSink_WriteError(t *testing.T) {
	sink := NewJSONLinesSink(failingWriter{})
	if err := sink.Emit("udp-message", "hello"); err == nil {
		t.Error("Emit() expected error from failing writer")
	}
}

func TestSinkFunc(t *testing.T) {
	var gotEvent, gotPayload string
	sink := SinkFunc(func(event, payload string) error {
		gotEvent, gotPayload = event, payload
		return nil
	})
	if err := sink.Emit("udp-message", "hi"); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if gotEvent != "udp-message" || gotPayload != "hi" {
		t.Errorf("got (%q, %q)", gotEvent, gotPayload)
	}
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(log.NewNoopLogger())
	if err := sink.Emit("udp-message", "hi"); err != nil {
		t.Errorf("Emit() error = %v", err)
	}
}
