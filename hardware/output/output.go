// Package output implements boolean-valued addressable output entities
// (accessory relays, signal lamps, ...), bound to a controller and
// echoing confirmed hardware state back.
package output

import "traintastic/object"

// Controller is the capability a hardware interface exposes to own
// outputs; declared locally to avoid importing the concrete interface
// implementation (see decoder.Controller for the same rationale).
type Controller interface {
	object.IdLike
	AddOutput(o *Output) error
	RemoveOutput(o *Output)
	SetOutput(channel, address uint16, value bool) bool
}

// Output is a boolean-valued addressable entity.
type Output struct {
	*object.IdObject

	Name      *object.Property[string]
	Value     *object.Property[bool]    // commanded value
	Echo      *object.Property[bool]    // last value confirmed by hardware
	Channel   *object.Property[uint16]
	Address   *object.Property[uint16]
	Interface *object.ObjectProperty[Controller]

	registry *object.Registry
}

// New constructs an output and registers it in the world index.
func New(registry *object.Registry, id string) *Output {
	o := &Output{IdObject: object.NewIdObject("output", registry, id), registry: registry}
	o.Bind(o)

	o.Name = object.NewProperty(o.Base, "name", "", object.ReadWrite|object.Store)
	o.Value = object.NewProperty(o.Base, "value", false, object.ReadWrite)
	o.Echo = object.NewProperty(o.Base, "echo", false, object.Internal)
	o.Channel = object.NewProperty(o.Base, "channel", uint16(0), object.ReadWrite|object.Store)
	o.Address = object.NewProperty(o.Base, "address", uint16(0), object.ReadWrite|object.Store)
	o.Interface = object.NewObjectProperty[Controller](o.Base, registry, "interface", object.ReadWrite|object.Store)

	o.Value.SetValidator(func(_, candidate bool) (bool, error) {
		ctrl, ok := o.Interface.Get()
		if !ok {
			return candidate, nil
		}
		if !ctrl.SetOutput(o.Channel.Get(), o.Address.Get(), candidate) {
			return false, object.ErrInvalidValue
		}
		return candidate, nil
	})

	o.Interface.OnChange(func(oldId, newId string) {
		if oldId != "" {
			if obj, ok := registry.Lookup(oldId); ok {
				if c, ok := obj.(Controller); ok {
					c.RemoveOutput(o)
				}
			}
		}
		if newId != "" {
			if obj, ok := registry.Lookup(newId); ok {
				if c, ok := obj.(Controller); ok {
					_ = c.AddOutput(o)
				}
			}
		}
	})

	return o
}

// ReportEcho is called by a kernel once hardware confirms the output
// state, independent of what was last commanded.
func (o *Output) ReportEcho(value bool) {
	o.Echo.SetInternal(value)
}
