// Package hwif implements the hardware interface object: transport
// settings, a bound kernel, and the online/offline lifecycle that
// constructs an I/O handler and starts a kernel against it. It keeps an
// exponential reconnect delay schedule (cenkalti/backoff/v4), read through
// NextReconnectDelay and reset on every successful start; it does not
// redial by itself after a transport error.
package hwif

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"traintastic/errs"
	"traintastic/object"
)

// Status mirrors the interface's observable online/offline/error state.
type Status int

const (
	StatusOffline Status = iota
	StatusOnline
	StatusError
)

// Handler is the transport surface a kernel drives; declared locally to
// avoid importing hardware/kernel's IOHandler directly (both packages
// can evolve independently; any type satisfying this structurally works).
type Handler interface {
	Start(ctx context.Context) error
	Stop() error
	Send(raw []byte) error
}

// Kernel is the subset of kernel.Kernel an Interface drives.
type Kernel interface {
	Start(ctx context.Context) error
	Stop() error
}

// Factory builds the handler and kernel pair for a simulation-or-real
// transport; supplied by the concrete protocol package (traintasticdiy,
// marklincan) wiring its own handler/kernel construction.
type Factory func() (Handler, Kernel, error)

// Interface is a hardware command-station connection: transport
// settings, a Simulation flag, and the online lifecycle.
type Interface struct {
	*object.IdObject

	Name       *object.Property[string]
	Simulation *object.Property[bool]
	Online     *object.Property[bool]

	factory Factory
	status  Status

	kernel     Kernel
	cancel     context.CancelFunc
	reconnect  *backoff.ExponentialBackOff
	lastError  error
	onLogError func(err error)
}

// New constructs an interface bound to factory for building its
// handler/kernel pair, and registers it in the world index.
func New(registry *object.Registry, id string, factory Factory) *Interface {
	i := &Interface{IdObject: object.NewIdObject("interface", registry, id), factory: factory}
	i.Bind(i)

	i.Name = object.NewProperty(i.Base, "name", "", object.ReadWrite|object.Store)
	i.Simulation = object.NewProperty(i.Base, "simulation", false, object.ReadWrite|object.Store)
	i.Online = object.NewProperty(i.Base, "online", false, object.ReadWrite)

	i.Online.SetValidator(func(_, candidate bool) (bool, error) {
		if candidate {
			if err := i.goOnline(); err != nil {
				return false, err
			}
			return true, nil
		}
		i.goOffline()
		return false, nil
	})

	reconnect := backoff.NewExponentialBackOff()
	reconnect.MaxInterval = 30 * time.Second
	reconnect.MaxElapsedTime = 0 // retry indefinitely while online
	i.reconnect = reconnect

	return i
}

// OnLogError installs a callback invoked with typed startup/transport
// failures, mirroring "if startup throws a typed LogMessageException,
// status is set to Offline and the error is logged".
func (i *Interface) OnLogError(fn func(err error)) {
	i.onLogError = fn
}

// SetTransportProperty rejects mutation of a named transport setting
// while the interface is online, returning NotWritable — "while online,
// transport-setting properties are disabled".
func (i *Interface) SetTransportProperty(apply func() error) error {
	if i.Online.Get() {
		return errs.New(errs.NotWritable, "Interface.SetTransportProperty", "cannot change transport settings while online")
	}
	return apply()
}

func (i *Interface) goOnline() error {
	handler, kernel, err := i.factory()
	if err != nil {
		i.fail(err)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	i.cancel = cancel
	if err := kernel.Start(ctx); err != nil {
		cancel()
		i.fail(err)
		return err
	}

	i.kernel = kernel
	i.status = StatusOnline
	i.lastError = nil
	i.reconnect.Reset()
	return nil
}

func (i *Interface) goOffline() {
	if i.cancel != nil {
		i.cancel()
	}
	if i.kernel != nil {
		_ = i.kernel.Stop()
	}
	i.kernel = nil
	i.status = StatusOffline
}

// fail records status=Offline and routes err to the installed logger,
// without ever panicking: a startup failure is a reportable condition,
// not a program defect.
func (i *Interface) fail(err error) {
	i.status = StatusError
	i.lastError = err
	if i.onLogError != nil {
		i.onLogError(err)
	}
	i.Online.SetInternal(false)
	i.status = StatusOffline
}

// Status reports the interface's own liveness distinct from the Online
// property, which only reflects the user's last successful request.
func (i *Interface) Status() Status { return i.status }

// IsOnline reports whether the interface is currently online, the
// capability world.World checks before allowing a transition to edit
// mode.
func (i *Interface) IsOnline() bool { return i.Online.Get() }

// NextReconnectDelay returns the next backoff interval to wait before
// retrying a failed connection attempt while online was requested.
func (i *Interface) NextReconnectDelay() time.Duration {
	return i.reconnect.NextBackOff()
}
