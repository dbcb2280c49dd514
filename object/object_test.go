package object

import "testing"

func TestPropertyNotifiesOnlyOnChange(t *testing.T) {
	owner := NewBase("test")
	p := NewProperty(owner, "value", 0, ReadWrite)

	calls := 0
	p.Subscribe(func(old, new int) { calls++ })

	if err := p.Set(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}

	if err := p.Set(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("idempotent write should not notify, got %d calls", calls)
	}
}

func TestPropertyNotWritableWithoutFlag(t *testing.T) {
	owner := NewBase("test")
	p := NewProperty(owner, "value", 0, Flag(0))
	if err := p.Set(5); err == nil {
		t.Fatal("expected NotWritable error")
	}
	if err := p.SetInternal(5); err != nil {
		t.Fatalf("SetInternal should bypass writability: %v", err)
	}
	if p.Get() != 5 {
		t.Fatalf("got %d, want 5", p.Get())
	}
}

func TestPropertyRefusesAfterDestroy(t *testing.T) {
	owner := NewBase("test")
	p := NewProperty(owner, "value", 0, ReadWrite)
	owner.Destroy()
	if err := p.Set(1); err == nil {
		t.Fatal("expected ObjectDestroyed error")
	}
}

func TestEventDispatchOrderAndDisconnectMidDispatch(t *testing.T) {
	owner := NewBase("test")
	e := NewEvent[int](owner, "tick")

	var order []int
	var subC *Subscription
	subA := e.Subscribe(func(v int) { order = append(order, 1) })
	_ = subA
	e.Subscribe(func(v int) {
		order = append(order, 2)
		subC.Unsubscribe()
	})
	subC = e.Subscribe(func(v int) { order = append(order, 3) })

	e.Emit(1)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("unexpected dispatch order: %v", order)
	}
}

func TestBaseInsertBefore(t *testing.T) {
	owner := NewBase("test")
	NewProperty(owner, "a", 0, ReadWrite)
	NewProperty(owner, "b", 0, ReadWrite)
	NewProperty(owner, "c", 0, ReadWrite)

	owner.InsertBefore("c", "a")

	var names []string
	for _, it := range owner.Items() {
		names = append(names, it.Name())
	}
	want := []string{"c", "a", "b"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("got order %v, want %v", names, want)
		}
	}
}

func TestObjectPropertyNullsOnDestroy(t *testing.T) {
	registry := NewRegistry()
	target := &idHolder{IdObject: NewIdObject("fake", registry, "t1")}
	target.Bind(target)

	owner := NewBase("test")
	ref := NewObjectProperty[*idHolder](owner, registry, "target", ReadWrite)

	var lastOld, lastNew string
	ref.OnChange(func(old, new string) { lastOld, lastNew = old, new })

	if err := ref.Set("t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := ref.Get(); !ok || got != target {
		t.Fatalf("expected resolved target, got %v, %v", got, ok)
	}

	target.Destroy()

	if _, ok := ref.Get(); ok {
		t.Fatal("expected reference to resolve to nothing after destroy")
	}
	if lastNew != "" || lastOld != "t1" {
		t.Fatalf("expected onChanged(t1, \"\"), got (%q, %q)", lastOld, lastNew)
	}
}

type idHolder struct {
	*IdObject
}

func TestListRemoveDestroys(t *testing.T) {
	owner := NewBase("test")
	list := NewList[*destroyCounter](owner, "items")

	item := &destroyCounter{}
	list.Add(item)
	if list.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", list.Len())
	}

	list.Remove(item)
	if list.Len() != 0 {
		t.Fatalf("expected 0 items, got %d", list.Len())
	}
	if item.destroyCount != 1 {
		t.Fatalf("expected item to be destroyed exactly once, got %d", item.destroyCount)
	}
}

type destroyCounter struct {
	destroyCount int
}

func (d *destroyCounter) Destroy() { d.destroyCount++ }
