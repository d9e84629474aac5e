package app

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/fedorg/blendrelay/internal/domain"
	"github.com/fedorg/blendrelay/internal/ports"
)

// datagram is one write observed by a fakeConn.
type datagram struct {
	data []byte
	addr net.Addr
}

// readResult is one scripted ReadFrom outcome.
type readResult struct {
	data []byte
	err  error
}

// fakeConn implements ports.PacketConn. Reads are served from a channel so
// tests control arrival; writes are recorded.
type fakeConn struct {
	reads chan readResult

	mu        sync.Mutex
	writes    []datagram
	writeErrs map[int]error // keyed by write index

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reads:  make(chan readResult, 16),
		closed: make(chan struct{}),
	}
}

var fakeLocalAddr = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}

func (c *fakeConn) ReadFrom(p []byte) (int, net.Addr, error) {
	select {
	case r := <-c.reads:
		if r.err != nil {
			return 0, nil, r.err
		}
		n := copy(p, r.data)
		return n, fakeLocalAddr, nil
	case <-c.closed:
		return 0, nil, net.ErrClosed
	}
}

func (c *fakeConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writeErrs[len(c.writes)]; err != nil {
		return 0, err
	}
	c.writes = append(c.writes, datagram{data: append([]byte(nil), p...), addr: addr})
	return len(p), nil
}

func (c *fakeConn) LocalAddr() net.Addr { return fakeLocalAddr }

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) written() []datagram {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]datagram(nil), c.writes...)
}

// fakeTransport hands out a single prepared conn.
type fakeTransport struct {
	conn      *fakeConn
	err       error
	mu        sync.Mutex
	addresses []string
}

func (t *fakeTransport) ListenPacket(ctx context.Context, address string) (ports.PacketConn, error) {
	t.mu.Lock()
	t.addresses = append(t.addresses, address)
	t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	return t.conn, nil
}

func (t *fakeTransport) calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.addresses)
}

// plainEncoder writes the address and nothing else, or fails for one name.
type plainEncoder struct {
	failName string
}

func (e plainEncoder) Encode(msg domain.Message) ([]byte, error) {
	if e.failName != "" && msg.Name() == e.failName {
		return nil, errors.Join(domain.ErrEncode, errors.New("unencodable"))
	}
	return []byte(msg.Address), nil
}

// recordingSink records emitted events and can be told to fail.
type recordingSink struct {
	mu      sync.Mutex
	events  []string
	names   []string
	err     error
	emitted chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{emitted: make(chan struct{}, 16)}
}

func (s *recordingSink) Emit(event, payload string) error {
	s.mu.Lock()
	s.names = append(s.names, event)
	s.events = append(s.events, payload)
	err := s.err
	s.mu.Unlock()
	s.emitted <- struct{}{}
	return err
}

func (s *recordingSink) payloads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}
