// Package udp implements the network I/O handler variant used for
// Märklin-CAN-over-UDP: a fixed local port (15730) receives inbound CAN
// frames while outbound frames are sent to a fixed remote port (15731),
// per the protocol's port pairing. Built on net.ListenUDP/net.DialUDP —
// stdlib is the idiomatic socket layer here, matching the pack's own
// networked examples.
package udp

import (
	"context"
	"net"
)

// Receiver is the subset of kernel.Kernel a handler pushes inbound
// frames into; declared locally to avoid importing hardware/kernel.
type Receiver interface {
	Receive(raw []byte)
}

// Handler binds a local UDP port and sends to a remote host:port.
type Handler struct {
	localPort   int
	remoteHost  string
	remotePort  int
	receiver    Receiver
	readConn    *net.UDPConn
	writeConn   *net.UDPConn
	cancel      context.CancelFunc
}

// New constructs a handler bound to localPort, sending to
// remoteHost:remotePort.
func New(localPort int, remoteHost string, remotePort int, receiver Receiver) *Handler {
	return &Handler{localPort: localPort, remoteHost: remoteHost, remotePort: remotePort, receiver: receiver}
}

// Start opens the read and write sockets and launches the reader.
func (h *Handler) Start(ctx context.Context) error {
	readConn, err := net.ListenUDP("udp", &net.UDPAddr{Port: h.localPort})
	if err != nil {
		return err
	}
	h.readConn = readConn

	writeConn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: net.ParseIP(h.remoteHost), Port: h.remotePort})
	if err != nil {
		_ = readConn.Close()
		return err
	}
	h.writeConn = writeConn

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
		n, _, err := h.readConn.ReadFromUDP(buf)
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

// Send writes raw to the remote endpoint.
func (h *Handler) Send(raw []byte) error {
	_, err := h.writeConn.Write(raw)
	return err
}

// Stop cancels the reader and closes both sockets.
func (h *Handler) Stop() error {
	if h.cancel != nil {
		h.cancel()
	}
	if h.writeConn != nil {
		_ = h.writeConn.Close()
	}
	if h.readConn != nil {
		return h.readConn.Close()
	}
	return nil
}
