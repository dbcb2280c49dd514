package object

// WorldEventKind enumerates the world-level state transitions broadcast
// to every contained object.
type WorldEventKind int

const (
	EditEnabled WorldEventKind = iota
	EditDisabled
	RunEnabled
	RunDisabled
	Mute
	Unmute
	Smoke
	NoSmoke
	PowerOn
	PowerOff
	TrackVoltageOn
	TrackVoltageOff
)

// WorldEvent is the payload broadcast on a world mode/flag transition.
type WorldEvent struct {
	Kind WorldEventKind
}

// WorldEventReceiver is implemented by every object reachable from the
// world's registration order; World walks its top-level lists and calls
// ReceiveWorldEvent on each, which in turn forwards to its own children.
type WorldEventReceiver interface {
	ReceiveWorldEvent(WorldEvent)
}

// OnWorldEvent registers a handler invoked for every world event this
// object receives, before its children are visited.
func (b *Base) OnWorldEvent(fn func(WorldEvent)) {
	b.worldEventHandlers = append(b.worldEventHandlers, fn)
}
