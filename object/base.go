package object

// Item is anything addressable by name on an object: a property, a
// method, or an event.
type Item interface {
	Name() string
}

// Base provides the insertion-ordered name→item map shared by every
// object in the runtime, plus the destroy/world-event plumbing that
// embedding types (Decoder, Interface, Board, ...) build on.
type Base struct {
	class     string
	itemNames []string
	items     map[string]Item
	children  []WorldEventReceiver // sub-objects visited by ReceiveWorldEvent, in registration order
	destroyed bool

	onDestroying       []func()
	worldEventHandlers []func(WorldEvent)
}

// NewBase constructs a Base tagged with a class identifier (used for
// diagnostics and persistence, not for dispatch).
func NewBase(class string) *Base {
	return &Base{class: class, items: make(map[string]Item)}
}

func (b *Base) Class() string { return b.class }

// Destroyed reports whether destroying() has already run.
func (b *Base) Destroyed() bool { return b.destroyed }

func (b *Base) addItem(it Item) {
	name := it.Name()
	if _, exists := b.items[name]; !exists {
		b.itemNames = append(b.itemNames, name)
	}
	b.items[name] = it
}

// Item looks up an interface item by name.
func (b *Base) Item(name string) (Item, bool) {
	it, ok := b.items[name]
	return it, ok
}

// Items returns every item in insertion order.
func (b *Base) Items() []Item {
	out := make([]Item, 0, len(b.itemNames))
	for _, n := range b.itemNames {
		out = append(out, b.items[n])
	}
	return out
}

// InsertBefore moves name to sit immediately before anchor in iteration
// order; it is a no-op if either name is absent. Used to let UI-derived
// ordering stay stable independent of construction order.
func (b *Base) InsertBefore(name, anchor string) {
	if _, ok := b.items[name]; !ok {
		return
	}
	if _, ok := b.items[anchor]; !ok {
		return
	}
	idx := -1
	for i, n := range b.itemNames {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	b.itemNames = append(b.itemNames[:idx], b.itemNames[idx+1:]...)

	anchorIdx := 0
	for i, n := range b.itemNames {
		if n == anchor {
			anchorIdx = i
			break
		}
	}
	b.itemNames = append(b.itemNames[:anchorIdx], append([]string{name}, b.itemNames[anchorIdx:]...)...)
}

// AddChild registers a sub-object to receive world events after this
// object, in registration order.
func (b *Base) AddChild(c WorldEventReceiver) {
	b.children = append(b.children, c)
}

// OnDestroying registers a callback run once, during destroying(), before
// children are released. Used by embedding types to null their own
// cross-references and detach from controllers/lists.
func (b *Base) OnDestroying(fn func()) {
	b.onDestroying = append(b.onDestroying, fn)
}

// Destroy runs the destroying() protocol exactly once: it fires every
// registered onDestroying hook (outermost caller's hooks first, then
// children, depth-first) and marks the object as destroyed so further
// mutation is refused with ObjectDestroyed.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	for _, fn := range b.onDestroying {
		fn()
	}
	for _, c := range b.children {
		if d, ok := c.(interface{ Destroy() }); ok {
			d.Destroy()
		}
	}
	b.destroyed = true
}

// ReceiveWorldEvent implements WorldEventReceiver: it runs this object's
// own handlers (added via OnWorldEvent, in worldevent.go) and then
// forwards the event to every registered child in registration order.
func (b *Base) ReceiveWorldEvent(ev WorldEvent) {
	for _, fn := range b.worldEventHandlers {
		fn(ev)
	}
	for _, c := range b.children {
		c.ReceiveWorldEvent(ev)
	}
}

// OnWorldEvent is declared in worldevent.go to keep this file focused on
// the item map.
