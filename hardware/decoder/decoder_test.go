package decoder

import (
	"testing"

	"traintastic/object"
)

func TestAutoLongAddress(t *testing.T) {
	registry := object.NewRegistry()
	d := New(registry, "d1")

	if err := d.Protocol.Set(ProtocolDCC); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Address.Set(100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.LongAddress.Get() {
		t.Fatal("100 should not trip long address")
	}

	changes := 0
	d.Changed.Subscribe(func(f ChangeFlags) { changes++ })

	if err := d.Address.Set(200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.LongAddress.Get() {
		t.Fatal("expected long_address to become true for address 200 under DCC")
	}
}

func TestThrottleRangeValidated(t *testing.T) {
	registry := object.NewRegistry()
	d := New(registry, "d1")

	if err := d.Throttle.Set(1.5); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if err := d.Throttle.Set(0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMuteFunctionOverride(t *testing.T) {
	registry := object.NewRegistry()
	d := New(registry, "d1")
	d.AddFunction(&Function{Number: 1, Name: "mute", Kind: FunctionMute})
	d.AddFunction(&Function{Number: 2, Name: "sound", Kind: FunctionSound, value: true})

	if v, _ := d.FunctionValue(2); v != true {
		t.Fatal("sound should read true while not muted")
	}

	d.ReceiveWorldEvent(object.WorldEvent{Kind: object.Mute})

	if v, _ := d.FunctionValue(1); v != true {
		t.Fatal("mute function should read true while world is muted")
	}
	if v, _ := d.FunctionValue(2); v != false {
		t.Fatal("sound should read false while muted and a mute function exists")
	}
}

type fakeController struct {
	*object.IdObject
	added, removed int
}

func newFakeController(registry *object.Registry, id string) *fakeController {
	c := &fakeController{IdObject: object.NewIdObject("controller", registry, id)}
	c.Bind(c)
	return c
}

func (c *fakeController) AddDecoder(d *Decoder) error { c.added++; return nil }
func (c *fakeController) RemoveDecoder(d *Decoder)    { c.removed++ }

func TestInterfaceReassignment(t *testing.T) {
	registry := object.NewRegistry()
	d := New(registry, "d1")
	a := newFakeController(registry, "ifA")
	b := newFakeController(registry, "ifB")

	if err := d.Interface.Set("ifA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.added != 1 {
		t.Fatalf("expected AddDecoder once, got %d", a.added)
	}

	if err := d.Interface.Set("ifB"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.removed != 1 {
		t.Fatalf("expected RemoveDecoder on old interface, got %d", a.removed)
	}
	if b.added != 1 {
		t.Fatalf("expected AddDecoder on new interface, got %d", b.added)
	}
}
