// Package kernel implements the single-goroutine executor every hardware
// interface runs its I/O handler behind: inbound frames, outbound calls
// posted by controllers, and a heartbeat ticker all funnel through one
// select loop, so nothing ever touches world state from a foreign
// goroutine.
package kernel

import (
	"context"
	"sync/atomic"
	"time"
)

// Status is the kernel's own liveness state, independent of the owning
// interface's online/offline property.
type Status int

const (
	StatusOffline Status = iota
	StatusOnline
	StatusError
)

// IOHandler is the transport surface a kernel drives: send raw bytes,
// start/stop the underlying connection. Received bytes are pushed back
// in via Kernel.Receive, not pulled by the kernel.
type IOHandler interface {
	Start(ctx context.Context) error
	Stop() error
	Send(raw []byte) error
}

// Kernel binds one IOHandler to one executor goroutine.
type Kernel struct {
	handler             IOHandler
	onReceive           func(raw []byte)
	onStarted           func()
	heartbeat           func() []byte // nil disables heartbeat sending
	heartbeatInterval   time.Duration
	maxMissedHeartbeats int

	tasks    chan func()
	received chan []byte
	stop     chan struct{}
	done     chan struct{}

	status           atomic.Int32
	missedHeartbeats int
}

// New constructs a kernel. heartbeat, if non-nil, is called to build the
// frame sent on every tick; onReceive is invoked for every inbound frame
// (on the executor goroutine); onStarted fires exactly once, the first
// time a frame is received.
func New(handler IOHandler, heartbeatInterval time.Duration, maxMissedHeartbeats int, heartbeat func() []byte, onReceive func(raw []byte), onStarted func()) *Kernel {
	if maxMissedHeartbeats <= 0 {
		maxMissedHeartbeats = 3
	}
	return &Kernel{
		handler:             handler,
		onReceive:           onReceive,
		onStarted:           onStarted,
		heartbeat:           heartbeat,
		heartbeatInterval:   heartbeatInterval,
		maxMissedHeartbeats: maxMissedHeartbeats,
		tasks:               make(chan func(), 16),
		received:            make(chan []byte, 16),
	}
}

// Start brings the handler up and launches the executor goroutine.
func (k *Kernel) Start(ctx context.Context) error {
	if err := k.handler.Start(ctx); err != nil {
		return err
	}
	k.stop = make(chan struct{})
	k.done = make(chan struct{})
	k.status.Store(int32(StatusOnline))
	go k.run(ctx)
	return nil
}

// Stop halts the executor goroutine and the handler, in that order.
func (k *Kernel) Stop() error {
	if k.stop != nil {
		close(k.stop)
		<-k.done
	}
	k.status.Store(int32(StatusOffline))
	return k.handler.Stop()
}

// Status reports the kernel's liveness, distinct from the owning
// interface's online/offline property: a kernel can transition to
// StatusError while the interface remains "online" until it notices.
// Safe to call from any goroutine.
func (k *Kernel) Status() Status { return Status(k.status.Load()) }

// Post schedules fn to run on the executor goroutine, serializing it with
// inbound frame handling and heartbeat ticks — the mechanism a bound
// controller uses to push outbound commands without touching kernel
// state from its own goroutine.
func (k *Kernel) Post(fn func()) {
	k.tasks <- fn
}

// Receive is called by the I/O handler (from whatever goroutine owns the
// transport) to hand a raw inbound frame to the executor.
func (k *Kernel) Receive(raw []byte) {
	select {
	case k.received <- raw:
	case <-k.stop:
	}
}

func (k *Kernel) run(ctx context.Context) {
	defer close(k.done)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	if k.heartbeatInterval > 0 {
		ticker = time.NewTicker(k.heartbeatInterval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	started := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-k.stop:
			return
		case raw := <-k.received:
			k.missedHeartbeats = 0
			if !started {
				started = true
				if k.onStarted != nil {
					k.onStarted()
				}
			}
			if k.onReceive != nil {
				k.onReceive(raw)
			}
		case fn := <-k.tasks:
			fn()
		case <-tickC:
			k.missedHeartbeats++
			if k.missedHeartbeats >= k.maxMissedHeartbeats {
				k.status.Store(int32(StatusError))
				return
			}
			if k.heartbeat != nil {
				_ = k.handler.Send(k.heartbeat())
			}
		}
	}
}
