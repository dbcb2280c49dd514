package object

import (
	"crypto/rand"
	"encoding/hex"

	"traintastic/errs"
)

// IdLike is implemented by anything with a world-unique, renameable id.
type IdLike interface {
	Id() string
}

// Registry is the world-wide id→object index. It is grounded on a
// simple register/lookup map, generalized from "builder lookup by type
// string" to "object lookup by id string", with an added weak-reference
// resolution step used by Ref/ObjectProperty: when an id is unregistered,
// every watcher registered against that id is notified so it can null
// itself out.
type Registry struct {
	objects  map[string]any
	watchers map[string][]func()
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		objects:  make(map[string]any),
		watchers: make(map[string][]func()),
	}
}

// GenId returns a random hex id suitable for a freshly created object,
// following the same crypto/rand + hex recipe used elsewhere for
// correlation ids.
func GenId() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// Register adds obj under id. It panics on a duplicate id: that signals a
// bug in id generation or a corrupt persistence file, not a recoverable
// runtime condition.
func (r *Registry) Register(id string, obj any) {
	if _, exists := r.objects[id]; exists {
		panic("object: duplicate id " + id)
	}
	r.objects[id] = obj
}

// Rename moves obj from oldId to newId atomically; it returns
// UnknownAddress-flavoured InvalidValue if newId is already taken.
func (r *Registry) Rename(oldId, newId string, obj any) error {
	if oldId == newId {
		return nil
	}
	if _, exists := r.objects[newId]; exists {
		return errs.New(errs.InvalidValue, "Registry.Rename", "id already in use")
	}
	delete(r.objects, oldId)
	r.objects[newId] = obj
	if ws, ok := r.watchers[oldId]; ok {
		delete(r.watchers, oldId)
		r.watchers[newId] = ws
	}
	return nil
}

// Unregister removes id and fires every watcher registered against it
// (used by Ref/ObjectProperty to null out on destruction).
func (r *Registry) Unregister(id string) {
	delete(r.objects, id)
	watchers := r.watchers[id]
	delete(r.watchers, id)
	for _, fn := range watchers {
		fn()
	}
}

// Lookup resolves id to the object registered under it, if any.
func (r *Registry) Lookup(id string) (any, bool) {
	obj, ok := r.objects[id]
	return obj, ok
}

// watch registers fn to run exactly once, when id is unregistered.
func (r *Registry) watch(id string, fn func()) {
	r.watchers[id] = append(r.watchers[id], fn)
}

// IdObject adds a world-unique, renameable string identity on top of
// Base. Construction is two-phase: NewIdObject builds the identity, and
// the embedding type's constructor calls Bind(self) once it has a fully
// formed pointer to register, so Ref/ObjectProperty resolve to the
// concrete domain type rather than to *IdObject itself.
type IdObject struct {
	*Base
	registry *Registry
	id       string
}

// NewIdObject constructs an id carrier without registering it yet.
func NewIdObject(class string, registry *Registry, id string) *IdObject {
	return &IdObject{Base: NewBase(class), registry: registry, id: id}
}

// Bind registers self (the fully constructed embedding type) under this
// object's id, and arranges for it to be unregistered on destroy.
func (o *IdObject) Bind(self any) {
	o.registry.Register(o.id, self)
	o.OnDestroying(func() { o.registry.Unregister(o.id) })
}

func (o *IdObject) Id() string { return o.id }

// SetId renames the object, atomically updating the world's id→object
// index.
func (o *IdObject) SetId(newId string) error {
	if o.Destroyed() {
		return ErrObjectDestroyed
	}
	self, ok := o.registry.Lookup(o.id)
	if !ok {
		self = o
	}
	if err := o.registry.Rename(o.id, newId, self); err != nil {
		return err
	}
	o.id = newId
	return nil
}

// Ref is an optional, non-owning reference to another IdObject-derived
// value, resolved lazily through the registry. It returns the zero value
// and ok=false once the referent is destroyed, without the holder having
// to be notified eagerly — the "resolves on access" approach.
type Ref[T any] struct {
	registry *Registry
	id       string
}

// NewRef constructs a reference to id, to be resolved against registry.
func NewRef[T any](registry *Registry, id string) Ref[T] {
	return Ref[T]{registry: registry, id: id}
}

func (r Ref[T]) Id() string { return r.id }

// Resolve looks up the referent, returning ok=false if it is empty or its
// target has been destroyed.
func (r Ref[T]) Resolve() (T, bool) {
	var zero T
	if r.id == "" || r.registry == nil {
		return zero, false
	}
	obj, ok := r.registry.Lookup(r.id)
	if !ok {
		return zero, false
	}
	t, ok := obj.(T)
	return t, ok
}

// ObjectProperty is a property-flavoured cross-object reference: it fires
// onChanged both when explicitly reassigned and when its referent is
// destroyed (atomically nulling out), in addition to supporting lazy
// resolution like Ref.
type ObjectProperty[T any] struct {
	name      string
	registry  *Registry
	flags     Flag
	id        string
	onChanged func(old, new string)
	destroyed *bool
	unwatch   func()
}

// NewObjectProperty constructs a cross-reference property bound to
// owner's item map.
func NewObjectProperty[T any](owner *Base, registry *Registry, name string, flags Flag) *ObjectProperty[T] {
	p := &ObjectProperty[T]{name: name, registry: registry, flags: flags, destroyed: &owner.destroyed}
	owner.addItem(p)
	return p
}

func (p *ObjectProperty[T]) Name() string   { return p.name }
func (p *ObjectProperty[T]) Flags() Flag    { return p.flags }

// GetAny returns the reference's target id boxed as any, for the
// type-erased persistence walk.
func (p *ObjectProperty[T]) GetAny() any { return p.id }

// SetInternalAny restores the reference from a persisted id, resolved
// lazily like any other assignment.
func (p *ObjectProperty[T]) SetInternalAny(v any) error {
	id, ok := v.(string)
	if !ok {
		return ErrInvalidValue
	}
	return p.SetInternal(id)
}

// Get resolves the current reference, returning ok=false if unset or the
// referent has been destroyed.
func (p *ObjectProperty[T]) Get() (T, bool) {
	var zero T
	if p.id == "" {
		return zero, false
	}
	obj, ok := p.registry.Lookup(p.id)
	if !ok {
		return zero, false
	}
	t, ok := obj.(T)
	return t, ok
}

// Set points the reference at target (by id), or clears it when id=="".
func (p *ObjectProperty[T]) Set(id string) error {
	if p.destroyed != nil && *p.destroyed {
		return ErrObjectDestroyed
	}
	if !p.flags.Has(ReadWrite) {
		return ErrNotWritable
	}
	return p.assign(id)
}

// SetInternal bypasses the writability check, for kernel/controller use.
func (p *ObjectProperty[T]) SetInternal(id string) error {
	if p.destroyed != nil && *p.destroyed {
		return ErrObjectDestroyed
	}
	return p.assign(id)
}

func (p *ObjectProperty[T]) assign(id string) error {
	if id == p.id {
		return nil
	}
	old := p.id
	if p.unwatch != nil {
		p.unwatch()
		p.unwatch = nil
	}
	p.id = id
	if id != "" {
		unwatched := false
		p.registry.watch(id, func() {
			if unwatched {
				return
			}
			p.id = ""
			if p.onChanged != nil {
				p.onChanged(id, "")
			}
		})
		p.unwatch = func() { unwatched = true }
	}
	if p.onChanged != nil {
		p.onChanged(old, id)
	}
	return nil
}

// OnChange installs the change continuation, called with the old and new
// target id (both may be "").
func (p *ObjectProperty[T]) OnChange(fn func(old, new string)) *ObjectProperty[T] {
	p.onChanged = fn
	return p
}
