// Package vehicle implements rail vehicles and trains: a RailVehicle is a
// physical piece of rolling stock with an optional decoder cross-reference;
// a Train is an ordered consist of vehicles whose effective throttle,
// direction and functions read-project from whichever vehicle in the
// consist carries the active decoder.
package vehicle

import (
	"traintastic/hardware/decoder"
	"traintastic/object"
)

// RailVehicle is a physical piece of rolling stock.
type RailVehicle struct {
	*object.IdObject

	Name              *object.Property[string]
	LengthOverBuffers *object.Property[float64] // millimetres
	Weight            *object.Property[float64] // tonnes
	Decoder           object.Ref[*decoder.Decoder]

	registry *object.Registry
}

// NewRailVehicle constructs a rail vehicle and registers it in the world
// index.
func NewRailVehicle(registry *object.Registry, id string) *RailVehicle {
	v := &RailVehicle{IdObject: object.NewIdObject("rail_vehicle", registry, id), registry: registry}
	v.Bind(v)

	v.Name = object.NewProperty(v.Base, "name", "", object.ReadWrite|object.Store)
	v.LengthOverBuffers = object.NewProperty(v.Base, "length_over_buffers", 0.0, object.ReadWrite|object.Store)
	v.Weight = object.NewProperty(v.Base, "weight", 0.0, object.ReadWrite|object.Store)

	return v
}

// SetDecoder binds (or clears, with id "") the vehicle's onboard decoder.
func (v *RailVehicle) SetDecoder(id string) {
	v.Decoder = object.NewRef[*decoder.Decoder](v.registry, id)
}

// Train is an ordered consist of rail vehicles.
type Train struct {
	*object.IdObject

	Name     *object.Property[string]
	Vehicles *object.List[*RailVehicle]

	registry *object.Registry
}

// NewTrain constructs an empty train and registers it in the world index.
func NewTrain(registry *object.Registry, id string) *Train {
	t := &Train{IdObject: object.NewIdObject("train", registry, id), registry: registry}
	t.Bind(t)

	t.Name = object.NewProperty(t.Base, "name", "", object.ReadWrite|object.Store)
	t.Vehicles = object.NewList[*RailVehicle](t.Base, "vehicles")

	return t
}

// activeDecoder returns the decoder of the first vehicle in the consist
// that carries one, or false if none of the vehicles has a decoder bound.
func (t *Train) activeDecoder() (*decoder.Decoder, bool) {
	for _, v := range t.Vehicles.Items() {
		if v.Decoder.Id() == "" {
			continue
		}
		if d, ok := v.Decoder.Resolve(); ok {
			return d, true
		}
	}
	return nil, false
}

// Throttle read-projects the active decoder's throttle, or 0 if the train
// has no active decoder.
func (t *Train) Throttle() float64 {
	d, ok := t.activeDecoder()
	if !ok {
		return 0
	}
	return d.Throttle.Get()
}

// Direction read-projects the active decoder's direction, or forward if
// the train has no active decoder.
func (t *Train) Direction() decoder.Direction {
	d, ok := t.activeDecoder()
	if !ok {
		return decoder.DirectionForward
	}
	return d.Direction.Get()
}

// FunctionValue read-projects the active decoder's function state.
func (t *Train) FunctionValue(number uint32) (bool, bool) {
	d, ok := t.activeDecoder()
	if !ok {
		return false, false
	}
	return d.FunctionValue(number)
}
