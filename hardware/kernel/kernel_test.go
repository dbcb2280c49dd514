package kernel

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeHandler struct {
	mu      sync.Mutex
	sent    [][]byte
	started bool
	stopped bool
}

func (h *fakeHandler) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = true
	return nil
}

func (h *fakeHandler) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	return nil
}

func (h *fakeHandler) Send(raw []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, raw)
	return nil
}

func (h *fakeHandler) sentCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sent)
}

func TestKernelStartedFiresOnceOnFirstReceive(t *testing.T) {
	handler := &fakeHandler{}
	startedCount := 0
	var received [][]byte
	done := make(chan struct{}, 2)

	k := New(handler, 0, 0, nil, func(raw []byte) {
		received = append(received, raw)
		done <- struct{}{}
	}, func() {
		startedCount++
	})

	ctx := context.Background()
	if err := k.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer k.Stop()

	k.Receive([]byte{1})
	k.Receive([]byte{2})
	<-done
	<-done

	if startedCount != 1 {
		t.Fatalf("expected onStarted to fire exactly once, got %d", startedCount)
	}
	if len(received) != 2 {
		t.Fatalf("expected 2 frames received, got %d", len(received))
	}
}

func TestKernelPostRunsOnExecutor(t *testing.T) {
	handler := &fakeHandler{}
	k := New(handler, 0, 0, nil, nil, nil)
	if err := k.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer k.Stop()

	done := make(chan struct{})
	k.Post(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted task never ran")
	}
}

func TestKernelTransitionsToErrorAfterMissedHeartbeats(t *testing.T) {
	handler := &fakeHandler{}
	k := New(handler, 5*time.Millisecond, 2, func() []byte { return []byte{0xFF} }, nil, nil)
	if err := k.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.After(time.Second)
	for k.Status() != StatusError {
		select {
		case <-deadline:
			t.Fatal("kernel never transitioned to StatusError")
		case <-time.After(time.Millisecond):
		}
	}
}
