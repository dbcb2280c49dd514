// Package serial implements the physical I/O handler variant for
// interfaces dialling a command station over USB-CDC serial (DCC++,
// Traintastic-DIY, or a Märklin-CAN-over-serial gateway), built on
// go.bug.st/serial for cross-platform port enumeration and control.
package serial

import (
	"context"

	"go.bug.st/serial"
)

// Receiver is the subset of kernel.Kernel a handler pushes inbound
// frames into; declared locally to avoid importing hardware/kernel.
type Receiver interface {
	Receive(raw []byte)
}

// Config carries the serial line settings exposed on an Interface's
// transport-setting properties.
type Config struct {
	Device      string
	BaudRate    int
	DataBits    int
	Parity      serial.Parity
	StopBits    serial.StopBits
	FlowControl bool
}

// Handler opens a serial port and relays reads back to the bound kernel.
type Handler struct {
	cfg      Config
	receiver Receiver
	port     serial.Port
	cancel   context.CancelFunc
}

// New constructs a handler that will open cfg.Device on Start.
func New(cfg Config, receiver Receiver) *Handler {
	return &Handler{cfg: cfg, receiver: receiver}
}

// Start opens the serial port and launches the reader.
func (h *Handler) Start(ctx context.Context) error {
	mode := &serial.Mode{
		BaudRate: h.cfg.BaudRate,
		DataBits: h.cfg.DataBits,
		Parity:   h.cfg.Parity,
		StopBits: h.cfg.StopBits,
	}
	port, err := serial.Open(h.cfg.Device, mode)
	if err != nil {
		return err
	}
	if h.cfg.FlowControl {
		_ = port.SetRTS(true)
	}
	h.port = port

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	go h.readLoop(runCtx)
	return nil
}

func (h *Handler) readLoop(ctx context.Context) {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := h.port.Read(buf)
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

// Send writes raw to the serial port.
func (h *Handler) Send(raw []byte) error {
	_, err := h.port.Write(raw)
	return err
}

// Stop cancels the reader and closes the port.
func (h *Handler) Stop() error {
	if h.cancel != nil {
		h.cancel()
	}
	if h.port != nil {
		return h.port.Close()
	}
	return nil
}
