package object

// Method is a named, synchronously invocable operation with declared
// argument and result types.
type Method[Args, Result any] struct {
	name string
	fn   func(Args) (Result, error)
}

// NewMethod constructs a method bound to owner's item map.
func NewMethod[Args, Result any](owner *Base, name string, fn func(Args) (Result, error)) *Method[Args, Result] {
	m := &Method[Args, Result]{name: name, fn: fn}
	owner.addItem(m)
	return m
}

func (m *Method[Args, Result]) Name() string { return m.name }

// Call invokes the method, returning its typed result or a typed error.
func (m *Method[Args, Result]) Call(args Args) (Result, error) {
	return m.fn(args)
}
