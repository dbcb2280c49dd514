package board

// Exit is one possible route out of a turnout-kind tile: which position
// selects it, and which port it leaves from.
type Exit struct {
	Position TurnoutPosition
	Port     int
}

// Exits returns every route available out of a turnout tile given the
// port it was entered from, per the walking table: two labelled exits
// from the trunk port, a single exit (labelled by the side arrived from)
// from any branch port.
func (t *Tile) Exits(arrivingPort int) []Exit {
	switch t.Id {
	case TileTurnoutLeft45, TileTurnoutLeft90, TileTurnoutLeftCurved:
		return turnoutTwoWay(arrivingPort, PositionLeft)
	case TileTurnoutRight45, TileTurnoutRight90, TileTurnoutRightCurved:
		return turnoutTwoWay(arrivingPort, PositionRight)
	case TileTurnoutWye:
		return wyeExits(arrivingPort)
	case TileTurnoutThreeWay:
		return threeWayExits(arrivingPort)
	case TileTurnoutDoubleSlip, TileTurnoutSingleSlip:
		return slipExits(t.Id, arrivingPort)
	}
	return nil
}

// turnoutTwoWay models a 3-port turnout whose trunk is port 0 and whose
// two branches are port 1 (straight) and port 2 (diverging, labelled side
// by side); from either branch there is exactly one exit back to port 0,
// labelled by the side it was entered from.
func turnoutTwoWay(arrivingPort int, sideLabel TurnoutPosition) []Exit {
	switch arrivingPort {
	case 0:
		return []Exit{{Position: PositionStraight, Port: 1}, {Position: sideLabel, Port: 2}}
	case 1:
		return []Exit{{Position: PositionStraight, Port: 0}}
	case 2:
		return []Exit{{Position: sideLabel, Port: 0}}
	}
	return nil
}

func wyeExits(arrivingPort int) []Exit {
	switch arrivingPort {
	case 0:
		return []Exit{{Position: PositionLeft, Port: 1}, {Position: PositionRight, Port: 2}}
	case 1:
		return []Exit{{Position: PositionLeft, Port: 0}}
	case 2:
		return []Exit{{Position: PositionRight, Port: 0}}
	}
	return nil
}

func threeWayExits(arrivingPort int) []Exit {
	switch arrivingPort {
	case 0:
		return []Exit{
			{Position: PositionLeft, Port: 1},
			{Position: PositionStraight, Port: 2},
			{Position: PositionRight, Port: 3},
		}
	case 1:
		return []Exit{{Position: PositionLeft, Port: 0}}
	case 2:
		return []Exit{{Position: PositionStraight, Port: 0}}
	case 3:
		return []Exit{{Position: PositionRight, Port: 0}}
	}
	return nil
}

// slipExits models a 4-port slip turnout: ports 0,1 on the near end,
// ports 2,3 on the far end. A slip tile never has a Straight position —
// it only ever routes Crossed (0-2/1-3) or Diverged (0-1/2-3). A double
// slip exposes Diverged from every port; a single slip only from ports
// 0 and 1 — see DESIGN.md for how this was resolved.
func slipExits(id TileId, arrivingPort int) []Exit {
	crossed := map[int]int{0: 2, 1: 3, 2: 0, 3: 1}
	diverged := map[int]int{0: 1, 1: 0, 2: 3, 3: 2}

	exits := []Exit{
		{Position: PositionCrossed, Port: crossed[arrivingPort]},
	}
	if id == TileTurnoutDoubleSlip || (id == TileTurnoutSingleSlip && (arrivingPort == 0 || arrivingPort == 1)) {
		exits = append(exits, Exit{Position: PositionDiverged, Port: diverged[arrivingPort]})
	}
	return exits
}

// PassThrough reports the single opposite exit port for a simple
// two-port or paired-port tile kind, or ok=false if the kind has no
// unconditional pass-through (buffer stop, link, unknown).
func (t *Tile) PassThrough(arrivingPort int) (exitPort int, ok bool) {
	switch t.Id {
	case TileStraight, TileCurve, TileOneWay, TileDirectionControl, TileBlock, TileSignal:
		if arrivingPort == 0 {
			return 1, true
		}
		return 0, true
	case TileBridge, TileCross:
		switch arrivingPort {
		case 0:
			return 2, true
		case 1:
			return 3, true
		case 2:
			return 0, true
		case 3:
			return 1, true
		}
	}
	return 0, false
}
