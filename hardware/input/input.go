// Package input implements boolean-valued addressable input entities
// (track occupancy detectors, button contacts, ...), bound to a
// controller and reflecting debounced hardware state.
package input

import (
	"time"

	"traintastic/object"
)

// Controller is the capability a hardware interface exposes to own
// inputs; declared locally to avoid importing the concrete interface
// implementation (see decoder.Controller for the same rationale).
type Controller interface {
	object.IdLike
	AddInput(i *Input) error
	RemoveInput(i *Input)
}

// Input is a boolean-valued addressable entity.
type Input struct {
	*object.IdObject

	Name      *object.Property[string]
	Value     *object.Property[bool]
	Inverted  *object.Property[bool]
	Debounce  *object.Property[time.Duration]
	Interface *object.ObjectProperty[Controller]

	registry      *object.Registry
	pendingValue  bool
	debounceTimer debounceTimer
}

// debounceTimer abstracts scheduling so tests don't depend on wall-clock
// time; the kernel/world executor supplies a real one in production.
type debounceTimer interface {
	Reset(d time.Duration, fire func())
	Stop()
}

// New constructs an input and registers it in the world index.
func New(registry *object.Registry, id string) *Input {
	i := &Input{IdObject: object.NewIdObject("input", registry, id), registry: registry}
	i.Bind(i)

	i.Name = object.NewProperty(i.Base, "name", "", object.ReadWrite|object.Store)
	i.Value = object.NewProperty(i.Base, "value", false, object.Internal)
	i.Inverted = object.NewProperty(i.Base, "inverted", false, object.ReadWrite|object.Store)
	i.Debounce = object.NewProperty(i.Base, "debounce", time.Duration(0), object.ReadWrite|object.Store)
	i.Interface = object.NewObjectProperty[Controller](i.Base, registry, "interface", object.ReadWrite|object.Store)

	i.Interface.OnChange(func(oldId, newId string) {
		if oldId != "" {
			if obj, ok := registry.Lookup(oldId); ok {
				if c, ok := obj.(Controller); ok {
					c.RemoveInput(i)
				}
			}
		}
		if newId != "" {
			if obj, ok := registry.Lookup(newId); ok {
				if c, ok := obj.(Controller); ok {
					_ = c.AddInput(i)
				}
			}
		}
	})

	return i
}

// ReportValue is called by a kernel with raw hardware state; it applies
// Inverted and, if Debounce is non-zero, defers acceptance until the
// value has been stable for that long. Without a scheduler attached
// (SetScheduler), debounce is skipped and the value is applied
// immediately — the behaviour unit tests rely on.
func (i *Input) ReportValue(raw bool) {
	v := raw
	if i.Inverted.Get() {
		v = !v
	}
	if i.debounceTimer == nil || i.Debounce.Get() == 0 {
		i.Value.SetInternal(v)
		return
	}
	i.pendingValue = v
	i.debounceTimer.Reset(i.Debounce.Get(), func() {
		i.Value.SetInternal(i.pendingValue)
	})
}

// SetScheduler attaches a debounce timer implementation; used in
// production where the kernel executor provides a real timer.
func (i *Input) SetScheduler(t debounceTimer) {
	i.debounceTimer = t
}
