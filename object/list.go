package object

// Destroyable is implemented by anything List can own: destroying it
// must run the full destroying() protocol.
type Destroyable interface {
	Destroy()
}

// List is an insertion-ordered collection of owning references to T.
// Ownership in this runtime is always exclusive (world → list → domain
// object), so Remove always destroys the removed element outright rather
// than decrementing a refcount.
type List[T Destroyable] struct {
	name  string
	items []T

	onAdded   func(T)
	onRemoved func(T)
}

// NewList constructs an owning list bound to owner's item map.
func NewList[T Destroyable](owner *Base, name string) *List[T] {
	l := &List[T]{name: name}
	owner.addItem(l)
	return l
}

func (l *List[T]) Name() string { return l.name }

// OnAdded/OnRemoved install lifecycle hooks fired after Add/before Remove.
func (l *List[T]) OnAdded(fn func(T))   { l.onAdded = fn }
func (l *List[T]) OnRemoved(fn func(T)) { l.onRemoved = fn }

// Add appends item, taking ownership of it.
func (l *List[T]) Add(item T) {
	l.items = append(l.items, item)
	if l.onAdded != nil {
		l.onAdded(item)
	}
}

// Items returns the list contents in insertion order. The slice is a
// copy; mutating it does not affect the list.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T]) Len() int { return len(l.items) }

// Remove drops item from the list and destroys it. It is a no-op if item
// is not present.
func (l *List[T]) Remove(item T) {
	for i, it := range l.items {
		if any(it) == any(item) {
			l.items = append(l.items[:i], l.items[i+1:]...)
			if l.onRemoved != nil {
				l.onRemoved(item)
			}
			it.Destroy()
			return
		}
	}
}

// Clear removes and destroys every item, in order.
func (l *List[T]) Clear() {
	items := l.items
	l.items = nil
	for _, it := range items {
		if l.onRemoved != nil {
			l.onRemoved(it)
		}
		it.Destroy()
	}
}
