package world

import (
	"context"
	"testing"
	"time"

	"traintastic/hardware/decoder"
	"traintastic/object"
)

func TestEditDisallowedWhileInterfaceOnline(t *testing.T) {
	registry := object.NewRegistry()
	w := New(registry)
	w.TrackInterface(fakeInterface{online: true})

	if err := w.applyModeChange(ModeEdit); err == nil {
		t.Fatal("expected editing to be disallowed while an interface is online")
	}
}

func TestEditAllowedWhenAllInterfacesOffline(t *testing.T) {
	registry := object.NewRegistry()
	w := New(registry)
	w.TrackInterface(fakeInterface{online: false})

	if err := w.applyModeChange(ModeEdit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Mode() != ModeEdit {
		t.Fatalf("expected ModeEdit, got %v", w.Mode())
	}
}

func TestWorldEventBroadcastMuteFlag(t *testing.T) {
	registry := object.NewRegistry()
	w := New(registry)

	d := decoder.New(registry, "d1")
	d.AddFunction(&decoder.Function{Number: 1, Name: "mute", Kind: decoder.FunctionMute})
	w.Track(d)

	w.SetFlag(FlagMute, true)

	if v, _ := d.FunctionValue(1); v != true {
		t.Fatal("expected mute function to read true once FlagMute is set")
	}
}

func TestRunLoopProcessesPostedTasks(t *testing.T) {
	registry := object.NewRegistry()
	w := New(registry)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	defer cancel()

	done := make(chan struct{})
	w.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted task never ran")
	}
}

func TestRequestModeViaExecutor(t *testing.T) {
	registry := object.NewRegistry()
	w := New(registry)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	defer cancel()

	if err := w.RequestMode(ModeRun); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type fakeInterface struct {
	online bool
}

func (f fakeInterface) Id() string      { return "if1" }
func (f fakeInterface) IsOnline() bool { return f.online }
