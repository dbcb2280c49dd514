// Package object implements the reflective property/method/event runtime
// that every domain entity (decoder, input, output, interface, tile,
// vehicle, ...) is built on: typed observable cells with attribute
// metadata, invokable methods, multicast events, ownership into lists,
// and cross-object references that survive destruction of either side.
//
// Everything in this package assumes a single logical thread of mutation:
// there is no internal locking, because the world executor (package world)
// serialises all calls onto one goroutine.
package object

import (
	"reflect"

	"traintastic/conv"
)

// Storable is the type-erased view of a property the persistence package
// walks: every Property[T] satisfies it regardless of T.
type Storable interface {
	Item
	Flags() Flag
	GetAny() any
	SetInternalAny(v any) error
}

// Flag controls how a property is exposed and persisted.
type Flag uint8

const (
	// ReadWrite allows Set from outside the owning object; without it,
	// only SetInternal may change the value.
	ReadWrite Flag = 1 << iota
	// Store marks the property for inclusion in persisted world state.
	Store
	// Internal hides the property from remote clients.
	Internal
	// SubObject marks the property as owning a single child object for
	// the lifetime of its parent.
	SubObject
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// AttributeName identifies one of a property's fixed set of observable
// attributes.
type AttributeName string

const (
	AttrDisplayName AttributeName = "DisplayName"
	AttrEnabled     AttributeName = "Enabled"
	AttrVisible     AttributeName = "Visible"
	AttrMin         AttributeName = "Min"
	AttrMax         AttributeName = "Max"
	AttrValues      AttributeName = "Values"
	AttrObjectList  AttributeName = "ObjectList"
)

// Validator inspects a candidate value before it is accepted. It may
// refuse the change (returning an error) or return a mutated value to
// store instead (e.g. clamping).
type Validator[T any] func(old, candidate T) (T, error)

type changeSub[T any] struct {
	id uint64
	fn func(old, new T)
}

// Subscription is a disposable handle returned by Subscribe. Disposing it
// detaches the callback at once: disposing mid-dispatch skips the callback
// for the rest of that dispatch if its turn has not yet come, as every
// subscriber list in this package does.
type Subscription struct {
	unsubscribe func()
}

// Unsubscribe detaches the handler. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.unsubscribe == nil {
		return
	}
	s.unsubscribe()
	s.unsubscribe = nil
}

// Property is a typed observable cell, constructed via NewProperty.
type Property[T any] struct {
	name      string
	flags     Flag
	value     T
	validator Validator[T]
	onChanged func(old, new T)
	subs      []changeSub[T]
	nextSubID uint64
	destroyed *bool

	displayName string
	enabled     bool
	visible     bool
	min         T
	max         T
	hasRange    bool
	values      []T
	objectList  bool

	attrSubs []func(AttributeName)
}

// NewProperty constructs a property bound to the given owner's destroyed
// flag: once the owner is destroyed, Set/SetInternal refuse with
// ObjectDestroyed.
func NewProperty[T any](owner *Base, name string, initial T, flags Flag) *Property[T] {
	p := &Property[T]{
		name:      name,
		flags:     flags,
		value:     initial,
		enabled:   true,
		visible:   true,
		destroyed: &owner.destroyed,
	}
	owner.addItem(p)
	return p
}

func (p *Property[T]) Name() string { return p.name }
func (p *Property[T]) Flags() Flag  { return p.flags }

// Get returns the current value.
func (p *Property[T]) Get() T { return p.value }

// GetAny returns the current value boxed as any, for the type-erased
// persistence walk.
func (p *Property[T]) GetAny() any { return p.value }

// SetInternalAny converts v to T via the same widening/range-checked
// rules as the typed setters, then applies it internally — used when
// restoring a value decoded from a persistence file as a generic any.
func (p *Property[T]) SetInternalAny(v any) error {
	converted, err := conv.Convert[T, any](v)
	if err != nil {
		return err
	}
	return p.SetInternal(converted)
}

// SetValidator installs the pre-acceptance validator.
func (p *Property[T]) SetValidator(v Validator[T]) *Property[T] {
	p.validator = v
	return p
}

// OnChange installs the on-changed continuation, invoked after subscribers.
func (p *Property[T]) OnChange(fn func(old, new T)) *Property[T] {
	p.onChanged = fn
	return p
}

// Set applies a write-from-outside: it enforces ReadWrite and runs the
// validator before accepting the value.
func (p *Property[T]) Set(v T) error {
	if p.destroyed != nil && *p.destroyed {
		return ErrObjectDestroyed
	}
	if !p.flags.Has(ReadWrite) {
		return ErrNotWritable
	}
	return p.apply(v)
}

// SetInternal bypasses the writability check; kernels use it to reflect
// hardware truth into properties that are otherwise read-only to clients.
func (p *Property[T]) SetInternal(v T) error {
	if p.destroyed != nil && *p.destroyed {
		return ErrObjectDestroyed
	}
	return p.apply(v)
}

func (p *Property[T]) apply(v T) error {
	old := p.value
	if p.validator != nil {
		accepted, err := p.validator(old, v)
		if err != nil {
			return err
		}
		v = accepted
	}
	p.value = v
	if valuesEqual(old, v) {
		return nil
	}
	p.notify(old, v)
	return nil
}

// valuesEqual reports whether a and b are equal, for the idempotent-write
// check in apply. T carries no comparable constraint (Property[bool],
// Property[[]Tile], ... all exist), so the fast path compares the boxed
// interfaces directly and falls back to reflect.DeepEqual only when that
// panics because T's dynamic type isn't comparable (e.g. a slice).
func valuesEqual[T any](a, b T) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return any(a) == any(b)
}

// notify fires subscribers in subscription order against a snapshot taken
// before dispatch begins, so a subscriber added during this pass is not
// invoked until the next one; a subscriber disconnected before its turn
// is skipped.
func (p *Property[T]) notify(old, new T) {
	snapshot := make([]changeSub[T], len(p.subs))
	copy(snapshot, p.subs)
	for _, s := range snapshot {
		if p.stillSubscribed(s.id) {
			s.fn(old, new)
		}
	}
	if p.onChanged != nil {
		p.onChanged(old, new)
	}
}

func (p *Property[T]) stillSubscribed(id uint64) bool {
	for _, s := range p.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

// Subscribe registers a change callback, invoked whenever Set/SetInternal
// accepts a value that differs from the prior one.
func (p *Property[T]) Subscribe(fn func(old, new T)) *Subscription {
	id := p.nextSubID
	p.nextSubID++
	p.subs = append(p.subs, changeSub[T]{id: id, fn: fn})
	return &Subscription{unsubscribe: func() {
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}}
}

// --- Attributes -------------------------------------------------------

func (p *Property[T]) fireAttrChanged(name AttributeName) {
	for _, fn := range p.attrSubs {
		fn(name)
	}
}

// SubscribeAttributeChanged registers a callback invoked whenever any
// attribute of this property changes.
func (p *Property[T]) SubscribeAttributeChanged(fn func(AttributeName)) {
	p.attrSubs = append(p.attrSubs, fn)
}

func (p *Property[T]) DisplayName() string { return p.displayName }
func (p *Property[T]) SetDisplayName(v string) {
	p.displayName = v
	p.fireAttrChanged(AttrDisplayName)
}

func (p *Property[T]) Enabled() bool { return p.enabled }
func (p *Property[T]) SetEnabled(v bool) {
	if p.enabled == v {
		return
	}
	p.enabled = v
	p.fireAttrChanged(AttrEnabled)
}

func (p *Property[T]) Visible() bool { return p.visible }
func (p *Property[T]) SetVisible(v bool) {
	if p.visible == v {
		return
	}
	p.visible = v
	p.fireAttrChanged(AttrVisible)
}

func (p *Property[T]) Min() T { return p.min }
func (p *Property[T]) Max() T { return p.max }

// SetRange sets Min and Max together; each fires its own attributeChanged.
func (p *Property[T]) SetRange(min, max T) {
	p.min = min
	p.max = max
	p.hasRange = true
	p.fireAttrChanged(AttrMin)
	p.fireAttrChanged(AttrMax)
}

func (p *Property[T]) HasRange() bool { return p.hasRange }

func (p *Property[T]) Values() []T { return p.values }
func (p *Property[T]) SetValues(v []T) {
	p.values = v
	p.fireAttrChanged(AttrValues)
}

func (p *Property[T]) ObjectListSource() bool { return p.objectList }
func (p *Property[T]) SetObjectListSource(v bool) {
	p.objectList = v
	p.fireAttrChanged(AttrObjectList)
}
