// Package simulation implements an in-process loopback I/O handler for
// interfaces running in simulation mode: instead of a real transport it
// enqueues canned replies onto the bound kernel, generalizing the
// teacher's host-side fake hardware buses (HostI2C/FakePin) from "fake
// bus for tests" to "fake command station for simulation mode".
package simulation

import "context"

// Receiver is the subset of kernel.Kernel a handler pushes inbound
// frames into; declared locally so this package doesn't import
// hardware/kernel, which in turn doesn't need to know about simulation.
type Receiver interface {
	Receive(raw []byte)
}

// Handler is a loopback transport: Send records what was sent and,
// optionally, synthesizes a reply via Responder.
type Handler struct {
	receiver  Receiver
	responder func(sent []byte) ([]byte, bool)

	sent [][]byte
}

// New constructs a simulation handler. responder, if non-nil, is called
// for every sent frame to optionally synthesize a reply that is
// delivered back to the kernel as if hardware had sent it.
func New(responder func(sent []byte) ([]byte, bool)) *Handler {
	return &Handler{responder: responder}
}

// Bind attaches the kernel-facing receiver; called once the kernel that
// owns this handler exists (handler construction happens before the
// kernel does, mirroring the teacher's two-phase device/bus wiring).
func (h *Handler) Bind(receiver Receiver) {
	h.receiver = receiver
}

func (h *Handler) Start(ctx context.Context) error { return nil }
func (h *Handler) Stop() error                     { return nil }

// Send records the frame and, if a responder is configured, feeds its
// synthesized reply back to the kernel.
func (h *Handler) Send(raw []byte) error {
	h.sent = append(h.sent, raw)
	if h.responder == nil || h.receiver == nil {
		return nil
	}
	if reply, ok := h.responder(raw); ok {
		h.receiver.Receive(reply)
	}
	return nil
}

// Sent returns every frame sent so far, for test assertions.
func (h *Handler) Sent() [][]byte {
	out := make([][]byte, len(h.sent))
	copy(out, h.sent)
	return out
}

// Inject delivers raw directly to the bound kernel, as if hardware had
// spontaneously reported it (e.g. simulateInputChange).
func (h *Handler) Inject(raw []byte) {
	if h.receiver != nil {
		h.receiver.Receive(raw)
	}
}
