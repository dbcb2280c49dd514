package output

import (
	"testing"

	"traintastic/object"
)

type fakeController struct {
	*object.IdObject
	added, removed int
	accept         bool
	lastChannel    uint16
	lastAddress    uint16
	lastValue      bool
}

func newFakeController(registry *object.Registry, id string) *fakeController {
	c := &fakeController{IdObject: object.NewIdObject("controller", registry, id), accept: true}
	c.Bind(c)
	return c
}

func (c *fakeController) AddOutput(o *Output) error { c.added++; return nil }
func (c *fakeController) RemoveOutput(o *Output)    { c.removed++ }
func (c *fakeController) SetOutput(channel, address uint16, value bool) bool {
	c.lastChannel, c.lastAddress, c.lastValue = channel, address, value
	return c.accept
}

func TestValueRoutesThroughController(t *testing.T) {
	registry := object.NewRegistry()
	o := New(registry, "o1")
	c := newFakeController(registry, "ifA")

	if err := o.Interface.Set("ifA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.added != 1 {
		t.Fatalf("expected AddOutput once, got %d", c.added)
	}

	o.Channel.SetInternal(uint16(2))
	o.Address.SetInternal(uint16(5))
	if err := o.Value.Set(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.lastChannel != 2 || c.lastAddress != 5 || !c.lastValue {
		t.Fatalf("unexpected SetOutput args: %+v", c)
	}
	if !o.Value.Get() {
		t.Fatal("expected value to be accepted")
	}
}

func TestValueRejectedByController(t *testing.T) {
	registry := object.NewRegistry()
	o := New(registry, "o1")
	c := newFakeController(registry, "ifA")
	c.accept = false

	if err := o.Interface.Set("ifA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := o.Value.Set(true); err == nil {
		t.Fatal("expected error when controller refuses the output")
	}
	if o.Value.Get() {
		t.Fatal("value should not change when the controller refuses it")
	}
}

func TestReportEchoIndependentOfValue(t *testing.T) {
	registry := object.NewRegistry()
	o := New(registry, "o1")

	o.ReportEcho(true)
	if !o.Echo.Get() {
		t.Fatal("expected echo to reflect reported hardware state")
	}
	if o.Value.Get() {
		t.Fatal("echo should not affect the commanded value")
	}
}

func TestInterfaceReassignmentAddsAndRemoves(t *testing.T) {
	registry := object.NewRegistry()
	o := New(registry, "o1")
	a := newFakeController(registry, "ifA")
	b := newFakeController(registry, "ifB")

	if err := o.Interface.Set("ifA"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := o.Interface.Set("ifB"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.removed != 1 {
		t.Fatalf("expected RemoveOutput on old interface, got %d", a.removed)
	}
	if b.added != 1 {
		t.Fatalf("expected AddOutput on new interface, got %d", b.added)
	}
}
