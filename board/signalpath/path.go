// Package signalpath evaluates the forward route from a signal to the
// next N blocks: it subscribes to every tile along the way that can
// change the effective route, and recomputes the ordered list of
// reachable block states whenever any of them fires.
package signalpath

import (
	"traintastic/board"
	"traintastic/object"
)

// Item is a node in the constructed route tree, a tagged variant of
// exactly Block, Turnout or DirectionControl (see BlockItem, TurnoutItem,
// DirectionControlItem).
type Item interface {
	item()
}

// BlockItem records a block tile crossed by the route, plus whatever
// follows it (nil at the end of the route).
type BlockItem struct {
	Tile *board.Tile
	Next Item
}

func (*BlockItem) item() {}

// TurnoutItem holds every branch reachable from the arriving port, keyed
// by the position that selects it. Next[pos] is nil if that branch has
// no discernible continuation (dead end, buffer stop, unhandled tile).
type TurnoutItem struct {
	Tile *board.Tile
	Next map[board.TurnoutPosition]Item
}

func (*TurnoutItem) item() {}

// DirectionControlItem is passable only when the tile's state is Both or
// equals Required (the side this route arrives from).
type DirectionControlItem struct {
	Tile     *board.Tile
	Required board.DirectionControlState
	Next     Item
}

func (*DirectionControlItem) item() {}

// Path is the constructed, reactive route from a signal out to
// blocksAhead blocks. Construction walks the board once and subscribes
// to every element that can change the route; after that, only
// evaluate() runs, driven by those subscriptions.
type Path struct {
	signal *board.Tile
	root   Item
	subs   []*object.Subscription

	onEvaluated func([]board.BlockState)
}

// New constructs and immediately evaluates a signal path rooted at
// signal's port 1 (the forward direction), looking ahead blocksAhead
// blocks.
func New(signal *board.Tile, blocksAhead int, onEvaluated func([]board.BlockState)) *Path {
	p := &Path{signal: signal, onEvaluated: onEvaluated}

	if signal.Node != nil && len(signal.Node.Links) > 1 {
		if link := signal.Node.Links[1]; link != nil {
			next := link.GetNext(signal.Node)
			if next != nil {
				p.root = p.build(next, link.PortOf(next), blocksAhead)
			}
		}
	}

	p.evaluate()
	return p
}

func (p *Path) subscribe(s *object.Subscription) {
	p.subs = append(p.subs, s)
}

// Destroy disposes every subscription this path holds. Tied to the
// signal's own lifetime: destroying the signal must destroy its path.
func (p *Path) Destroy() {
	for _, s := range p.subs {
		s.Unsubscribe()
	}
	p.subs = nil
}

func followExit(tile *board.Tile, exitPort int) (*board.Node, int) {
	if exitPort < 0 || exitPort >= len(tile.Node.Links) {
		return nil, 0
	}
	link := tile.Node.Links[exitPort]
	if link == nil {
		return nil, 0
	}
	next := link.GetNext(tile.Node)
	if next == nil {
		return nil, 0
	}
	return next, link.PortOf(next)
}

// build walks the board from (node, arrivingPort), skipping over
// transparent pass-through tiles (one-way, bridge/cross, link, plain
// rail) and stopping to build an Item at a Block, Turnout or
// DirectionControl — or returning nil at a buffer stop, dead end,
// exhausted blocksAhead budget, or unhandled tile kind.
func (p *Path) build(node *board.Node, arrivingPort, remaining int) Item {
	for {
		if node == nil || remaining < 0 {
			return nil
		}
		tile := node.Tile

		switch {
		case tile.Id == board.TileBufferStop:
			return nil

		case tile.Id == board.TileBlock:
			return p.buildBlock(tile, arrivingPort, remaining)

		case tile.Id == board.TileDirectionControl:
			return p.buildDirectionControl(tile, arrivingPort, remaining)

		case tile.Id == board.TileOneWay:
			if arrivingPort != 0 {
				return nil
			}
			exitPort, _ := tile.PassThrough(arrivingPort)
			node, arrivingPort = followExit(tile, exitPort)

		case tile.Id == board.TileBridge || tile.Id == board.TileCross:
			exitPort, ok := tile.PassThrough(arrivingPort)
			if !ok {
				return nil
			}
			node, arrivingPort = followExit(tile, exitPort)

		case tile.Id == board.TileLink:
			if tile.LinkedTo == nil {
				return nil
			}
			node, arrivingPort = tile.LinkedTo, 0

		case tile.Id == board.TileStraight || tile.Id == board.TileCurve:
			exitPort, ok := tile.PassThrough(arrivingPort)
			if !ok {
				return nil
			}
			if remaining == 0 {
				return nil
			}
			remaining--
			node, arrivingPort = followExit(tile, exitPort)

		case tile.Id.IsTurnout():
			return p.buildTurnout(tile, arrivingPort, remaining)

		default:
			return nil
		}
	}
}

func (p *Path) buildBlock(tile *board.Tile, arrivingPort, remaining int) Item {
	item := &BlockItem{Tile: tile}
	p.subscribe(tile.State.Subscribe(func(old, new board.BlockState) { p.evaluate() }))

	if remaining > 0 {
		if exitPort, ok := tile.PassThrough(arrivingPort); ok {
			nextNode, nextPort := followExit(tile, exitPort)
			item.Next = p.build(nextNode, nextPort, remaining-1)
		}
	}
	return item
}

func (p *Path) buildDirectionControl(tile *board.Tile, arrivingPort, remaining int) Item {
	required := board.DirectionAtoB
	if arrivingPort != 0 {
		required = board.DirectionBtoA
	}
	item := &DirectionControlItem{Tile: tile, Required: required}
	p.subscribe(tile.Direction.Subscribe(func(old, new board.DirectionControlState) { p.evaluate() }))

	if exitPort, ok := tile.PassThrough(arrivingPort); ok {
		nextNode, nextPort := followExit(tile, exitPort)
		item.Next = p.build(nextNode, nextPort, remaining)
	}
	return item
}

func (p *Path) buildTurnout(tile *board.Tile, arrivingPort, remaining int) Item {
	item := &TurnoutItem{Tile: tile, Next: make(map[board.TurnoutPosition]Item)}
	p.subscribe(tile.Position.Subscribe(func(old, new board.TurnoutPosition) { p.evaluate() }))

	for _, exit := range tile.Exits(arrivingPort) {
		nextNode, nextPort := followExit(tile, exit.Port)
		item.Next[exit.Position] = p.build(nextNode, nextPort, remaining)
	}
	return item
}

// evaluate walks the fixed item tree, selecting the active branch at
// every turnout/direction-control, and hands the ordered block-state
// vector to onEvaluated. It is idempotent and safe to call repeatedly:
// it allocates a fresh slice and holds no state between calls, so a
// subscription firing during its own dispatch simply produces another
// fresh, independent vector.
func (p *Path) evaluate() {
	var states []board.BlockState
	walk(p.root, &states)
	p.onEvaluated(states)
}

func walk(it Item, out *[]board.BlockState) {
	switch v := it.(type) {
	case nil:
		return
	case *BlockItem:
		*out = append(*out, v.Tile.State.Get())
		walk(v.Next, out)
	case *TurnoutItem:
		walk(v.Next[v.Tile.Position.Get()], out)
	case *DirectionControlItem:
		state := v.Tile.Direction.Get()
		if state == board.DirectionBoth || state == v.Required {
			walk(v.Next, out)
		}
	}
}
