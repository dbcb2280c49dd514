// Package decoder implements the addressed locomotive-controller domain
// object: an entity parameterised by (protocol, address, longAddress)
// bound to a command-station controller, with throttle/direction/
// function state reflected to and from hardware.
package decoder

import (
	"traintastic/object"
)

// Protocol identifies the command-station protocol a decoder speaks.
type Protocol int

const (
	ProtocolAuto Protocol = iota
	ProtocolDCC
	ProtocolMotorola
	ProtocolSelectrix
)

type Direction int

const (
	DirectionForward Direction = iota
	DirectionReverse
)

// ChangeFlags records which facets of a decoder changed, for the single
// notification handed to the bound controller/kernel.
type ChangeFlags uint8

const (
	ChangeEmergencyStop ChangeFlags = 1 << iota
	ChangeDirection
	ChangeSpeedSteps
	ChangeThrottle
	ChangeFunctionValue
)

const (
	AddressDCCShortMax = 127
	ThrottleMin        = 0.0
	ThrottleMax        = 1.0
	SpeedStepsAuto     = 0
)

// FunctionKind marks a function as one the Mute/NoSmoke world flags
// override.
type FunctionKind int

const (
	FunctionNormal FunctionKind = iota
	FunctionMute
	FunctionSound
	FunctionSmoke
)

// Function is one addressable decoder function (F0, F1, ...).
type Function struct {
	Number uint32
	Name   string
	Kind   FunctionKind
	value  bool
}

// Controller is the capability a hardware interface exposes to own
// decoders: declared locally so this package never has to import the
// concrete interface/controller implementation (which in turn imports
// this package), avoiding an import cycle. Any type with these methods
// satisfies it structurally.
type Controller interface {
	object.IdLike
	AddDecoder(d *Decoder) error
	RemoveDecoder(d *Decoder)
}

// Decoder is an addressed locomotive controller.
type Decoder struct {
	*object.IdObject

	Name          *object.Property[string]
	Protocol      *object.Property[Protocol]
	Address       *object.Property[uint16]
	LongAddress   *object.Property[bool]
	EmergencyStop *object.Property[bool]
	Direction     *object.Property[Direction]
	SpeedSteps    *object.Property[uint8]
	Throttle      *object.Property[float64]
	Notes         *object.Property[string]

	Interface *object.ObjectProperty[Controller]

	Changed *object.Event[ChangeFlags]

	functions []*Function

	registry     *object.Registry
	worldMuted   bool
	worldNoSmoke bool
}

// New constructs a decoder and registers it in the world index.
func New(registry *object.Registry, id string) *Decoder {
	d := &Decoder{
		IdObject: object.NewIdObject("decoder", registry, id),
		registry: registry,
	}
	d.Bind(d)

	d.Name = object.NewProperty(d.Base, "name", "", object.ReadWrite|object.Store)
	d.Protocol = object.NewProperty(d.Base, "protocol", ProtocolAuto, object.ReadWrite|object.Store)
	d.Address = object.NewProperty(d.Base, "address", uint16(0), object.ReadWrite|object.Store)
	d.LongAddress = object.NewProperty(d.Base, "long_address", false, object.ReadWrite|object.Store)
	d.EmergencyStop = object.NewProperty(d.Base, "emergency_stop", false, object.ReadWrite)
	d.Direction = object.NewProperty(d.Base, "direction", DirectionForward, object.ReadWrite)
	d.SpeedSteps = object.NewProperty(d.Base, "speed_steps", uint8(SpeedStepsAuto), object.ReadWrite|object.Store)
	d.Throttle = object.NewProperty(d.Base, "throttle", ThrottleMin, object.ReadWrite)
	d.Throttle.SetRange(ThrottleMin, ThrottleMax)
	d.Notes = object.NewProperty(d.Base, "notes", "", object.ReadWrite|object.Store)
	d.Interface = object.NewObjectProperty[Controller](d.Base, registry, "interface", object.ReadWrite|object.Store)
	d.Changed = object.NewEvent[ChangeFlags](d.Base, "changed")

	d.Throttle.SetValidator(func(_, candidate float64) (float64, error) {
		if candidate < ThrottleMin || candidate > ThrottleMax {
			return 0, object.ErrOutOfRange
		}
		return candidate, nil
	})

	d.Protocol.OnChange(func(old, new Protocol) {
		if new == ProtocolDCC && d.Address.Get() > AddressDCCShortMax {
			d.LongAddress.SetInternal(true)
		}
		d.updateEditable()
	})
	d.Address.OnChange(func(old, new uint16) {
		if d.Protocol.Get() == ProtocolDCC && new > AddressDCCShortMax {
			d.LongAddress.SetInternal(true)
		}
		d.updateEditable()
	})
	d.EmergencyStop.OnChange(func(old, new bool) {
		d.Changed.Emit(ChangeEmergencyStop)
		d.updateEditable()
	})
	d.Direction.OnChange(func(old, new Direction) {
		d.Changed.Emit(ChangeDirection)
	})
	d.SpeedSteps.OnChange(func(old, new uint8) {
		d.Changed.Emit(ChangeSpeedSteps)
	})
	d.Throttle.OnChange(func(old, new float64) {
		d.Changed.Emit(ChangeThrottle)
		d.updateEditable()
	})

	d.Interface.OnChange(func(oldId, newId string) {
		if oldId != "" {
			if obj, ok := registry.Lookup(oldId); ok {
				if c, ok := obj.(Controller); ok {
					c.RemoveDecoder(d)
				}
			}
		}
		if newId != "" {
			if obj, ok := registry.Lookup(newId); ok {
				if c, ok := obj.(Controller); ok {
					_ = c.AddDecoder(d)
				}
			}
		}
	})

	d.OnWorldEvent(func(ev object.WorldEvent) {
		switch ev.Kind {
		case object.Mute:
			d.worldMuted = true
		case object.Unmute:
			d.worldMuted = false
		case object.NoSmoke:
			d.worldNoSmoke = true
		case object.Smoke:
			d.worldNoSmoke = false
		case object.EditEnabled, object.EditDisabled:
			d.updateEditable()
		}
	})

	d.updateEditable()
	return d
}

// updateEditable mirrors the original's rule: editable attributes are
// enabled only while the decoder is stopped (throttle == 0).
func (d *Decoder) updateEditable() {
	stopped := d.Throttle.Get() == 0
	d.Protocol.SetEnabled(stopped)
	d.Address.SetEnabled(stopped)
	d.LongAddress.SetEnabled(stopped)
	d.SpeedSteps.SetEnabled(stopped)
}

// AddFunction appends a function slot; Number must be unique, not
// enforced here since it is only ever called during world construction
// or persistence load.
func (d *Decoder) AddFunction(f *Function) {
	d.functions = append(d.functions, f)
}

func (d *Decoder) Functions() []*Function {
	out := make([]*Function, len(d.functions))
	copy(out, d.functions)
	return out
}

func (d *Decoder) findFunction(number uint32) (*Function, bool) {
	for _, f := range d.functions {
		if f.Number == number {
			return f, true
		}
	}
	return nil, false
}

// FunctionValue returns the effective value of function number, applying
// the Mute/NoSmoke world-flag overrides: a Mute function reads true
// while the world is muted; a Sound function reads false while muted
// unless a Mute function also exists; Smoke reads false while the world
// is NoSmoke.
func (d *Decoder) FunctionValue(number uint32) (bool, bool) {
	f, ok := d.findFunction(number)
	if !ok {
		return false, false
	}
	if d.worldMuted {
		if f.Kind == FunctionMute {
			return true, true
		}
		if f.Kind == FunctionSound && !d.hasMuteFunction() {
			return false, true
		}
	}
	if d.worldNoSmoke && f.Kind == FunctionSmoke {
		return false, true
	}
	return f.value, true
}

func (d *Decoder) hasMuteFunction() bool {
	for _, f := range d.functions {
		if f.Kind == FunctionMute {
			return true
		}
	}
	return false
}

// SetFunctionValue sets the stored value of function number and notifies
// the bound controller. The override rules in FunctionValue are applied
// only on read, exactly as in the source model.
func (d *Decoder) SetFunctionValue(number uint32, value bool) bool {
	f, ok := d.findFunction(number)
	if !ok {
		return false
	}
	if f.value == value {
		return true
	}
	f.value = value
	d.Changed.Emit(ChangeFunctionValue)
	return true
}
