package persistence

import (
	"path/filepath"
	"testing"

	"traintastic/object"
)

type testObj struct {
	*object.Base
	id           string
	Name         *object.Property[string]
	Length       *object.Property[float64]
	loadedCalled bool
}

func newTestObj(id string) *testObj {
	b := object.NewBase("test")
	o := &testObj{Base: b, id: id}
	o.Name = object.NewProperty(b, "name", "", object.ReadWrite|object.Store)
	o.Length = object.NewProperty(b, "length", 0.0, object.ReadWrite|object.Store)
	return o
}

func (o *testObj) Id() string  { return o.id }
func (o *testObj) Loaded()     { o.loadedCalled = true }

func TestDumpCollectsOnlyStoreFlaggedProperties(t *testing.T) {
	o := newTestObj("obj-1")
	transient := object.NewProperty(o.Base, "transient", "hidden", object.ReadWrite)
	_ = transient

	o.Name.SetInternal("loco-1")
	o.Length.SetInternal(12.5)

	doc := Dump([]Object{o})

	attrs, ok := doc["obj-1"]
	if !ok {
		t.Fatal("expected an entry for obj-1")
	}
	if attrs["name"] != "loco-1" {
		t.Fatalf("expected name loco-1, got %v", attrs["name"])
	}
	if attrs["length"] != 12.5 {
		t.Fatalf("expected length 12.5, got %v", attrs["length"])
	}
	if _, present := attrs["transient"]; present {
		t.Fatal("transient property should not be persisted")
	}
}

func TestLoadRestoresValuesAndCallsLoaded(t *testing.T) {
	o := newTestObj("obj-1")
	doc := Document{
		"obj-1": {"name": "loco-2", "length": 20},
	}

	if err := Load(doc, []Object{o}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Name.Get() != "loco-2" {
		t.Fatalf("expected name loco-2, got %v", o.Name.Get())
	}
	if o.Length.Get() != 20 {
		t.Fatalf("expected length 20, got %v", o.Length.Get())
	}
	if !o.loadedCalled {
		t.Fatal("expected Loaded to be called after restore")
	}
}

func TestLoadIgnoresUnknownIds(t *testing.T) {
	o := newTestObj("obj-1")
	doc := Document{"obj-ghost": {"name": "nope"}}

	if err := Load(doc, []Object{o}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Name.Get() != "" {
		t.Fatalf("expected obj-1 untouched, got %v", o.Name.Get())
	}
}

func TestSaveFileLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")

	o := newTestObj("obj-1")
	o.Name.SetInternal("loco-3")
	o.Length.SetInternal(5.5)

	if err := SaveFile(path, []Object{o}); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	restored := newTestObj("obj-1")
	if err := LoadFile(path, []Object{restored}); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if restored.Name.Get() != "loco-3" {
		t.Fatalf("expected loco-3, got %v", restored.Name.Get())
	}
	if restored.Length.Get() != 5.5 {
		t.Fatalf("expected 5.5, got %v", restored.Length.Get())
	}
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	o := newTestObj("obj-1")
	if err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), []Object{o}); err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
}
