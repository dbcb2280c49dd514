// Package persistence implements the opaque id→attribute mapping the
// core requires of any world loader: a human-editable YAML file holding,
// for every persisted object, the subset of its properties flagged
// object.Store. Restoring a file is two-phase — every value is written
// back first, then Loaded() is invoked on every restorable object, so a
// property that resolves a cross-reference (a rail vehicle's decoder, a
// signal path's tiles) can assume the full graph already exists.
package persistence

import (
	"os"

	"gopkg.in/yaml.v3"

	"traintastic/object"
)

// Object is the type-erased view of a domain object persistence walks:
// anything with a world-unique id and the item map every object.Base
// embedder exposes. Every type built on object.IdObject satisfies this
// automatically.
type Object interface {
	object.IdLike
	Items() []object.Item
}

// Restorable is implemented by objects that need to run finalization
// logic once the whole graph has been restored (rebuilding a derived
// lookup table, re-resolving a reference that needed every id present).
// It is optional: objects with no such step simply don't implement it.
type Restorable interface {
	Loaded()
}

// Document is the decoded shape of a persistence file: object id →
// property name → stored value.
type Document map[string]map[string]any

// Dump walks objects and collects every Store-flagged property into a
// Document, in object and property iteration order (map order in the
// result is irrelevant — YAML marshaling sorts keys on encode).
func Dump(objects []Object) Document {
	doc := make(Document, len(objects))
	for _, o := range objects {
		attrs := map[string]any{}
		for _, it := range o.Items() {
			s, ok := it.(object.Storable)
			if !ok || !s.Flags().Has(object.Store) {
				continue
			}
			attrs[it.Name()] = s.GetAny()
		}
		doc[o.Id()] = attrs
	}
	return doc
}

// Load restores every value in doc onto the matching object in objects
// (objects absent from doc, or ids in doc with no matching live object,
// are left untouched — a persistence file may describe a superset or
// subset of the current graph), then invokes Loaded() on every
// restorable object once every value has been applied.
func Load(doc Document, objects []Object) error {
	index := make(map[string]Object, len(objects))
	for _, o := range objects {
		index[o.Id()] = o
	}

	for id, attrs := range doc {
		o, ok := index[id]
		if !ok {
			continue
		}
		for _, it := range o.Items() {
			s, ok := it.(object.Storable)
			if !ok || !s.Flags().Has(object.Store) {
				continue
			}
			v, present := attrs[it.Name()]
			if !present {
				continue
			}
			if err := s.SetInternalAny(v); err != nil {
				return err
			}
		}
	}

	for _, o := range objects {
		if r, ok := o.(Restorable); ok {
			r.Loaded()
		}
	}
	return nil
}

// SaveFile marshals Dump(objects) to path as YAML.
func SaveFile(path string, objects []Object) error {
	raw, err := yaml.Marshal(Dump(objects))
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// LoadFile reads path and restores it onto objects via Load. A missing
// file is not an error: a fresh world simply has nothing to restore.
func LoadFile(path string, objects []Object) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return Load(doc, objects)
}
