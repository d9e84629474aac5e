package osc

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/fedorg/blendrelay/internal/domain"
)

func TestEncoder_RoundTrip(t *testing.T) {
	enc := NewEncoder()

	b, err := enc.Encode(domain.NewMessage("jawOpen", 0.75))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Address != "/jawOpen" {
		t.Errorf("Address = %q, want /jawOpen", got.Address)
	}
	if math.Float32bits(got.Value) != math.Float32bits(0.75) {
		t.Errorf("Value bits = %#x, want %#x", math.Float32bits(got.Value), math.Float32bits(0.75))
	}
}

func TestEncoder_WireLayout(t *testing.T) {
	b, err := NewEncoder().Encode(domain.NewMessage("jawOpen", 0.75))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// "/jawOpen" + NUL padded to 12, ",f" + NUL padded to 4, 4 byte float.
	if len(b) != 20 {
		t.Fatalf("len = %d, want 20 (% x)", len(b), b)
	}
	if string(b[:8]) != "/jawOpen" {
		t.Errorf("address bytes = %q", b[:8])
	}
	if string(b[12:14]) != ",f" {
		t.Errorf("type tag = %q, want \",f\"", b[12:14])
	}
	if bits := binary.BigEndian.Uint32(b[16:20]); bits != math.Float32bits(0.75) {
		t.Errorf("float bits = %#x, want %#x", bits, math.Float32bits(0.75))
	}
}

func TestEncoder_NonFiniteValues(t *testing.T) {
	values := []float32{
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
		float32(math.NaN()),
		-0.0,
		math.MaxFloat32,
	}

	for _, v := range values {
		b, err := NewEncoder().Encode(domain.NewMessage("browInnerUp", v))
		if err != nil {
			t.Fatalf("Encode(%v) error = %v", v, err)
		}
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode(%v) error = %v", v, err)
		}
		if math.Float32bits(got.Value) != math.Float32bits(v) {
			t.Errorf("value %v bits = %#x, want %#x", v, math.Float32bits(got.Value), math.Float32bits(v))
		}
	}
}

func TestEncoder_RejectsNUL(t *testing.T) {
	_, err := NewEncoder().Encode(domain.NewMessage("jaw\x00Open", 1))
	if !errors.Is(err, domain.ErrEncode) {
		t.Errorf("Encode() error = %v, want ErrEncode", err)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"plain text", []byte("hello")},
		{"empty", nil},
		{"no arguments", mustMarshal(t, "/jawOpen")},
		{"string argument", mustMarshal(t, "/jawOpen", "wide")},
		{"two floats", mustMarshal(t, "/jawOpen", float32(1), float32(2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.payload); err == nil {
				t.Error("Decode() expected error")
			}
		})
	}
}

func TestTextDecoder(t *testing.T) {
	dec := NewTextDecoder()

	b, err := NewEncoder().Encode(domain.NewMessage("mouthSmileLeft", 0.5))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, ok := dec.Decode(b)
	if !ok {
		t.Fatal("Decode() rejected a valid message")
	}
	if got != "/mouthSmileLeft 0.5" {
		t.Errorf("Decode() = %q, want \"/mouthSmileLeft 0.5\"", got)
	}

	got, ok = dec.Decode(mustMarshal(t, "/status", "ready", int32(3)))
	if !ok {
		t.Fatal("Decode() rejected a mixed-argument message")
	}
	if got != `/status "ready" 3` {
		t.Errorf("Decode() = %q", got)
	}

	if _, ok := dec.Decode([]byte("not osc")); ok {
		t.Error("Decode() accepted a non-OSC payload")
	}
}
