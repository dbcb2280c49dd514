// Package tcp implements the network I/O handler variant for interfaces
// dialling a command station over a TCP socket (e.g. a
// Traintastic-DIY-over-network or WiFi-bridge gateway). It is built on
// net.Dial directly: Go's own net package is the ecosystem's idiomatic
// socket layer, matching every networked example in the pack, so no
// third-party replacement is more idiomatic here.
package tcp

import (
	"context"
	"net"
)

// Receiver is the subset of kernel.Kernel a handler pushes inbound
// frames into; declared locally to avoid importing hardware/kernel.
type Receiver interface {
	Receive(raw []byte)
}

// Handler dials a TCP connection and relays every read chunk, as read,
// back to the bound kernel via Receiver.
type Handler struct {
	address  string
	receiver Receiver
	conn     net.Conn
	cancel   context.CancelFunc
}

// New constructs a handler that will dial address (host:port) on Start.
func New(address string, receiver Receiver) *Handler {
	return &Handler{address: address, receiver: receiver}
}

// Start dials the connection and launches a background reader relaying
// every read chunk to the bound receiver until Stop is called or the
// connection closes.
func (h *Handler) Start(ctx context.Context) error {
	conn, err := net.Dial("tcp", h.address)
	if err != nil {
		return err
	}
	h.conn = conn

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	go h.readLoop(runCtx)
	return nil
}

func (h *Handler) readLoop(ctx context.Context) {
	buf := make([]byte, 1500)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := h.conn.Read(buf)
		if err != nil {
			return
		}
		if n > 0 {
			frame := make([]byte, n)
			copy(frame, buf[:n])
			h.receiver.Receive(frame)
		}
	}
}

// Send writes raw to the connection.
func (h *Handler) Send(raw []byte) error {
	_, err := h.conn.Write(raw)
	return err
}

// Stop cancels the reader and closes the connection.
func (h *Handler) Stop() error {
	if h.cancel != nil {
		h.cancel()
	}
	if h.conn != nil {
		return h.conn.Close()
	}
	return nil
}
