// Package board models the spatial layout as a labelled multigraph:
// tiles with a fixed per-kind port arity, nodes owned by exactly one
// tile, and links joining exactly two nodes.
package board

import "traintastic/object"

// TileId fixes a tile's shape and therefore its port count and geometry.
type TileId int

const (
	TileStraight TileId = iota
	TileCurve
	TileTurnoutLeft45
	TileTurnoutLeft90
	TileTurnoutLeftCurved
	TileTurnoutRight45
	TileTurnoutRight90
	TileTurnoutRightCurved
	TileTurnoutWye
	TileTurnoutThreeWay
	TileTurnoutDoubleSlip
	TileTurnoutSingleSlip
	TileDirectionControl
	TileOneWay
	TileBridge
	TileCross
	TileLink
	TileBufferStop
	TileBlock
	TileSignal
)

// PortCount returns the fixed number of ports a tile of this kind has.
func (id TileId) PortCount() int {
	switch id {
	case TileBufferStop:
		return 1
	case TileStraight, TileCurve, TileBlock, TileSignal, TileOneWay, TileDirectionControl, TileLink:
		return 2
	case TileTurnoutLeft45, TileTurnoutLeft90, TileTurnoutLeftCurved,
		TileTurnoutRight45, TileTurnoutRight90, TileTurnoutRightCurved,
		TileTurnoutWye:
		return 3
	case TileTurnoutThreeWay, TileTurnoutDoubleSlip, TileTurnoutSingleSlip,
		TileBridge, TileCross:
		return 4
	}
	return 0
}

func (id TileId) IsTurnout() bool {
	switch id {
	case TileTurnoutLeft45, TileTurnoutLeft90, TileTurnoutLeftCurved,
		TileTurnoutRight45, TileTurnoutRight90, TileTurnoutRightCurved,
		TileTurnoutWye, TileTurnoutThreeWay, TileTurnoutDoubleSlip, TileTurnoutSingleSlip:
		return true
	}
	return false
}

// TurnoutPosition is the set of selectable routes through a turnout tile.
type TurnoutPosition int

const (
	PositionUnknown TurnoutPosition = iota
	PositionStraight
	PositionLeft
	PositionRight
	PositionCrossed
	PositionDiverged
)

// BlockState is the observable occupancy state of a block tile.
type BlockState int

const (
	BlockUnknown BlockState = iota
	BlockFree
	BlockReserved
	BlockOccupied
)

// DirectionControlState constrains which arriving side a direction
// control tile currently passes.
type DirectionControlState int

const (
	DirectionBoth DirectionControlState = iota
	DirectionAtoB
	DirectionBtoA
)

// Tile is a positioned element on a board. Kind-specific state (Position,
// State, Direction) is nil unless Id names the relevant kind — Go has no
// sum-type syntax, so the tagged-variant discipline from the source model
// is kept as "check Id before touching the field", exactly like switching
// over kind-specific fields in the original.
type Tile struct {
	*object.Base

	Id       TileId
	X, Y     int
	Node     *Node
	LinkedTo *Node // TileLink only: the far node this tile teleports to, always addressed at its port 0

	Position  *object.Property[TurnoutPosition]      // turnout kinds only
	State     *object.Property[BlockState]            // TileBlock only
	Direction *object.Property[DirectionControlState] // TileDirectionControl only
}

// NewTile constructs a tile of the given kind and wires up its node and
// kind-specific properties.
func NewTile(owner *object.Base, id TileId, x, y int) *Tile {
	t := &Tile{Base: object.NewBase("tile"), Id: id, X: x, Y: y}
	t.Node = NewNode(t)
	if owner != nil {
		owner.AddChild(t)
	}

	if id.IsTurnout() {
		t.Position = object.NewProperty(t.Base, "position", PositionUnknown, object.ReadWrite|object.Store)
	}
	if id == TileBlock {
		t.State = object.NewProperty(t.Base, "state", BlockUnknown, object.ReadWrite)
	}
	if id == TileDirectionControl {
		t.Direction = object.NewProperty(t.Base, "direction", DirectionBoth, object.ReadWrite|object.Store)
	}
	return t
}

// Node is owned by exactly one tile; links[i] is the connection at port i.
type Node struct {
	Tile  *Tile
	Links []*Link
}

// NewNode allocates a node with as many (initially nil) link slots as its
// tile has ports.
func NewNode(t *Tile) *Node {
	return &Node{Tile: t, Links: make([]*Link, t.Id.PortCount())}
}

// Link joins exactly two nodes at fixed port indices on each.
type Link struct {
	a, aPort int
	b, bPort int
	nodeA    *Node
	nodeB    *Node
}

// Connect joins port portA of nodeA to port portB of nodeB, maintaining
// the invariant that link ∈ n.links() iff one endpoint of link is n.
func Connect(nodeA *Node, portA int, nodeB *Node, portB int) *Link {
	l := &Link{nodeA: nodeA, aPort: portA, nodeB: nodeB, bPort: portB}
	nodeA.Links[portA] = l
	nodeB.Links[portB] = l
	return l
}

// GetNext returns the node at the opposite end of the link from n, or nil
// if n is not one of the link's endpoints.
func (l *Link) GetNext(n *Node) *Node {
	if l.nodeA == n {
		return l.nodeB
	}
	if l.nodeB == n {
		return l.nodeA
	}
	return nil
}

// PortOf returns the port index of n on this link, or -1 if n is not an
// endpoint.
func (l *Link) PortOf(n *Node) int {
	if l.nodeA == n {
		return l.aPort
	}
	if l.nodeB == n {
		return l.bPort
	}
	return -1
}

// Detach clears both of the link's port slots; used when destroying a
// tile, which must detach its node's links before the node itself goes
// away.
func (l *Link) Detach() {
	if l.nodeA != nil {
		l.nodeA.Links[l.aPort] = nil
	}
	if l.nodeB != nil {
		l.nodeB.Links[l.bPort] = nil
	}
}
