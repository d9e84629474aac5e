package udp

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestTransport_ListenPacket_Loopback(t *testing.T) {
	tr := NewTransport()
	ctx := context.Background()

	server, err := tr.ListenPacket(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen server: %v", err)
	}
	defer server.Close()

	client, err := tr.ListenPacket(ctx, "0.0.0.0:0")
	if err != nil {
		t.Fatalf("listen client: %v", err)
	}
	defer client.Close()

	if _, err := client.WriteTo([]byte("ping"), server.LocalAddr()); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	if err := server.(net.PacketConn).SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	buf := make([]byte, 16)
	n, _, err := server.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if string(buf[:n]) != "ping" {
		t.Errorf("received %q, want ping", buf[:n])
	}
}

func TestTransport_ListenPacket_AddressInUse(t *testing.T) {
	tr := NewTransport()

	first, err := tr.ListenPacket(context.Background(), "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer first.Close()

	second, err := tr.ListenPacket(context.Background(), first.LocalAddr().String())
	if err == nil {
		second.Close()
		t.Fatal("second bind on the same address succeeded")
	}
}
