// Package world implements the single-goroutine supervisor owning every
// top-level domain object list, the Edit/Run/Stop mode, and the
// Mute/NoSmoke/PowerOn/TrackVoltageOn flag bitset, broadcasting typed
// world events to every contained object in registration order.
package world

import (
	"context"
	"time"

	"traintastic/board"
	"traintastic/errs"
	"traintastic/hardware/decoder"
	"traintastic/hardware/input"
	"traintastic/hardware/output"
	"traintastic/hardware/vehicle"
	"traintastic/object"
	"traintastic/persistence"
)

// Mode is the world's run mode, a mutually exclusive tri-state (unlike
// Flag, which is an independent bitset).
type Mode int

const (
	ModeStop Mode = iota
	ModeRun
	ModeEdit
)

// Flag is the independent world-condition bitset.
type Flag uint8

const (
	FlagMute Flag = 1 << iota
	FlagNoSmoke
	FlagPowerOn
	FlagTrackVoltageOn
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// onlineChecker reports whether an interface is currently online;
// declared locally so world doesn't import hardware/interface's
// concrete type, only the capability it needs from anything registered
// as an interface.
type onlineChecker interface {
	object.IdLike
	IsOnline() bool
}

// World owns every top-level object list named in the data model and
// runs the single logical executor every property/event/method call and
// kernel-posted task executes on.
type World struct {
	Decoders    *object.List[*decoder.Decoder]
	Inputs      *object.List[*input.Input]
	Outputs     *object.List[*output.Output]
	Boards      *object.List[*board.Board]
	RailVehicles *object.List[*vehicle.RailVehicle]
	Trains      *object.List[*vehicle.Train]
	Interfaces  []onlineChecker

	interfaceObjects []persistence.Object

	registry *object.Registry
	root     *object.Base

	mode Mode
	flag Flag

	registrationOrder []object.WorldEventReceiver

	modeRequests chan modeRequest
	tasks        chan func()
	tick         time.Duration
	stop         chan struct{}
	done         chan struct{}
}

type modeRequest struct {
	mode  Mode
	reply chan error
}

// New constructs an empty world bound to registry.
func New(registry *object.Registry) *World {
	root := object.NewBase("world")
	w := &World{
		registry:     registry,
		root:         root,
		modeRequests: make(chan modeRequest, 1),
		tasks:        make(chan func(), 32),
		tick:         time.Second,
	}
	w.Decoders = object.NewList[*decoder.Decoder](root, "decoders")
	w.Inputs = object.NewList[*input.Input](root, "inputs")
	w.Outputs = object.NewList[*output.Output](root, "outputs")
	w.Boards = object.NewList[*board.Board](root, "boards")
	w.RailVehicles = object.NewList[*vehicle.RailVehicle](root, "rail_vehicles")
	w.Trains = object.NewList[*vehicle.Train](root, "trains")
	return w
}

// Track registers recv to receive world events in the order it was
// added — the "visited in world-registration order" guarantee.
func (w *World) Track(recv object.WorldEventReceiver) {
	w.registrationOrder = append(w.registrationOrder, recv)
}

// TrackInterface additionally registers an interface for the
// all-offline-to-edit check. If i also exposes the item map every
// persisted object has, it is included in Objects() too.
func (w *World) TrackInterface(i onlineChecker) {
	w.Interfaces = append(w.Interfaces, i)
	if p, ok := i.(persistence.Object); ok {
		w.interfaceObjects = append(w.interfaceObjects, p)
	}
}

// Objects returns every persistable object the world currently owns, in
// list order, for Dump/Load to walk.
func (w *World) Objects() []persistence.Object {
	var out []persistence.Object
	for _, d := range w.Decoders.Items() {
		out = append(out, d)
	}
	for _, i := range w.Inputs.Items() {
		out = append(out, i)
	}
	for _, o := range w.Outputs.Items() {
		out = append(out, o)
	}
	for _, b := range w.Boards.Items() {
		out = append(out, b)
	}
	for _, v := range w.RailVehicles.Items() {
		out = append(out, v)
	}
	for _, tr := range w.Trains.Items() {
		out = append(out, tr)
	}
	out = append(out, w.interfaceObjects...)
	return out
}

// Save writes the world's current persisted state to path.
func (w *World) Save(path string) error {
	return persistence.SaveFile(path, w.Objects())
}

// Load restores the world's persisted state from path.
func (w *World) Load(path string) error {
	return persistence.LoadFile(path, w.Objects())
}

// Mode returns the current run mode.
func (w *World) Mode() Mode { return w.mode }

// Flags returns the current flag bitset.
func (w *World) Flags() Flag { return w.flag }

// RequestMode asks the executor to transition to mode, returning
// ErrEditWhileOnline if requesting ModeEdit while any interface is
// online.
func (w *World) RequestMode(mode Mode) error {
	reply := make(chan error, 1)
	w.modeRequests <- modeRequest{mode: mode, reply: reply}
	return <-reply
}

var ErrEditWhileOnline = errs.New(errs.InvalidValue, "World.RequestMode", "editing is disallowed while any interface is online")

func (w *World) applyModeChange(mode Mode) error {
	if mode == ModeEdit {
		for _, i := range w.Interfaces {
			if i.IsOnline() {
				return ErrEditWhileOnline
			}
		}
	}
	if w.mode == mode {
		return nil
	}
	old := w.mode
	w.mode = mode
	w.broadcast(modeTransitionEvents(old, mode)...)
	return nil
}

func modeTransitionEvents(old, new Mode) []object.WorldEventKind {
	var events []object.WorldEventKind
	if old == ModeEdit && new != ModeEdit {
		events = append(events, object.EditDisabled)
	}
	if new == ModeEdit && old != ModeEdit {
		events = append(events, object.EditEnabled)
	}
	if new == ModeRun {
		events = append(events, object.RunEnabled)
	}
	if old == ModeRun && new != ModeRun {
		events = append(events, object.RunDisabled)
	}
	return events
}

// SetFlag toggles bit on or off, broadcasting the matching typed events.
func (w *World) SetFlag(bit Flag, on bool) {
	was := w.flag.Has(bit)
	if was == on {
		return
	}
	if on {
		w.flag |= bit
	} else {
		w.flag &^= bit
	}
	w.broadcast(flagTransitionEvent(bit, on))
}

func flagTransitionEvent(bit Flag, on bool) object.WorldEventKind {
	switch bit {
	case FlagMute:
		if on {
			return object.Mute
		}
		return object.Unmute
	case FlagNoSmoke:
		if on {
			return object.NoSmoke
		}
		return object.Smoke
	case FlagPowerOn:
		if on {
			return object.PowerOn
		}
		return object.PowerOff
	case FlagTrackVoltageOn:
		if on {
			return object.TrackVoltageOn
		}
		return object.TrackVoltageOff
	default:
		return object.EditDisabled
	}
}

// broadcast delivers every event to every tracked receiver, in
// registration order, matching the ordering guarantee.
func (w *World) broadcast(kinds ...object.WorldEventKind) {
	for _, kind := range kinds {
		ev := object.WorldEvent{Kind: kind}
		for _, recv := range w.registrationOrder {
			recv.ReceiveWorldEvent(ev)
		}
	}
}

// Post schedules fn to run on the world's executor goroutine.
func (w *World) Post(fn func()) {
	w.tasks <- fn
}

// Run starts the executor loop; it blocks until ctx is cancelled or Stop
// is called.
func (w *World) Run(ctx context.Context) {
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	defer close(w.done)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case req := <-w.modeRequests:
			req.reply <- w.applyModeChange(req.mode)
		case fn := <-w.tasks:
			fn()
		case <-ticker.C:
			// No work is scheduled on the tick; it only gives the
			// loop a pulse when nothing else is pending. Other work
			// reaches the loop through Post.
		}
	}
}

// Stop halts the executor loop.
func (w *World) Stop() {
	if w.stop != nil {
		close(w.stop)
		<-w.done
	}
}
