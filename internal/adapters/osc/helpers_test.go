package osc

import (
	"testing"

	"github.com/hypebeast/go-osc/osc"
)

func mustMarshal(t *testing.T, addr string, args ...interface{}) []byte {
	t.Helper()
	b, err := osc.NewMessage(addr, args...).MarshalBinary()
	if err != nil {
		t.Fatalf("marshal %s: %v", addr, err)
	}
	return b
}
