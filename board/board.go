package board

import "traintastic/object"

// Board is a named rectangular layout: a set of tiles addressed by
// position, each owning exactly one node.
type Board struct {
	*object.IdObject

	Name *object.Property[string]

	tiles map[[2]int]*Tile
}

// NewBoard constructs an empty board and registers it in the world index.
func NewBoard(registry *object.Registry, id string) *Board {
	b := &Board{
		IdObject: object.NewIdObject("board", registry, id),
		tiles:    make(map[[2]int]*Tile),
	}
	b.Bind(b)
	b.Name = object.NewProperty(b.Base, "name", id, object.ReadWrite|object.Store)
	return b
}

// PlaceTile adds t at (x, y). It panics on a duplicate position: that is
// a layout-editing bug, not a recoverable runtime condition.
func (b *Board) PlaceTile(t *Tile) {
	key := [2]int{t.X, t.Y}
	if _, exists := b.tiles[key]; exists {
		panic("board: position already occupied")
	}
	b.tiles[key] = t
}

// TileAt returns the tile at (x, y), if any.
func (b *Board) TileAt(x, y int) (*Tile, bool) {
	t, ok := b.tiles[[2]int{x, y}]
	return t, ok
}

// RemoveTile detaches every link on t's node and removes t from the
// board, per the invariant that destroying a tile first detaches its
// node's links.
func (b *Board) RemoveTile(t *Tile) {
	for _, l := range t.Node.Links {
		if l != nil {
			l.Detach()
		}
	}
	delete(b.tiles, [2]int{t.X, t.Y})
}
