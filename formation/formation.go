// Package formation converts formation shapes and drawn lines into concrete
// hex positions for individual units.
package formation

import (
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/units"
)

// Slot is a position in a formation line where a unit should stand.
type Slot struct {
	UnitID   ids.UnitID
	Position hex.Coord
	Rank     uint8
}

// Line is a drawn formation line defining where units should position
// themselves: left flank to right flank, facing perpendicular to the line.
type Line struct {
	ID          ids.FormationLineID
	FormationID ids.FormationID
	Start       hex.Coord
	End         hex.Coord
	Facing      hex.Direction
	Depth       uint8
	Slots       []Slot
}

// NewLine returns a new formation line of depth 1 between start and end.
func NewLine(formationID ids.FormationID, start, end hex.Coord, facing hex.Direction) *Line {
	return &Line{
		ID:          ids.NewFormationLineID(),
		FormationID: formationID,
		Start:       start,
		End:         end,
		Facing:      facing,
		Depth:       1,
	}
}

// WithDepth sets the line's rank depth (minimum 1) and returns it.
func (l *Line) WithDepth(depth uint8) *Line {
	if depth < 1 {
		depth = 1
	}
	l.Depth = depth
	return l
}

// LineHexes returns every hex along the formation line's front rank.
func (l *Line) LineHexes() []hex.Coord {
	return l.Start.LineTo(l.End)
}

// Length is the number of hexes along the formation line.
func (l *Line) Length() int {
	return len(l.LineHexes())
}

// AssignUnits assigns unitIDs to the line's hexes in order, filling the front
// rank first and spilling into deeper ranks as needed.
func (l *Line) AssignUnits(unitIDs []ids.UnitID) {
	l.Slots = nil

	lineHexes := l.LineHexes()
	if len(lineHexes) == 0 || len(unitIDs) == 0 {
		return
	}

	lineLength := len(lineHexes)

	for i, unitID := range unitIDs {
		rank := uint8(i / lineLength)
		positionInRank := i % lineLength

		baseHex := lineHexes[positionInRank]
		position := offsetByRank(baseHex, l.Facing.Opposite(), rank)

		l.Slots = append(l.Slots, Slot{UnitID: unitID, Position: position, Rank: rank})
	}
}

// GetSlot returns the slot assigned to unitID, or nil.
func (l *Line) GetSlot(unitID ids.UnitID) *Slot {
	for i := range l.Slots {
		if l.Slots[i].UnitID == unitID {
			return &l.Slots[i]
		}
	}
	return nil
}

// GetTargetPosition returns the position assigned to unitID, if any.
func (l *Line) GetTargetPosition(unitID ids.UnitID) (hex.Coord, bool) {
	slot := l.GetSlot(unitID)
	if slot == nil {
		return hex.Coord{}, false
	}
	return slot.Position, true
}

// CalculateFacing derives the facing perpendicular to the line's
// orientation, snapping to the nearest hex direction.
func (l *Line) CalculateFacing() hex.Direction {
	dq := l.End.Q - l.Start.Q
	dr := l.End.R - l.Start.R

	abs := func(v int32) int32 {
		if v < 0 {
			return -v
		}
		return v
	}

	if abs(dq) > abs(dr) {
		if dq > 0 {
			return hex.NorthWest
		}
		return hex.SouthEast
	} else if dr < 0 {
		return hex.East
	}
	return hex.West
}

func offsetByRank(h hex.Coord, direction hex.Direction, rank uint8) hex.Coord {
	offset := direction.Offset()
	return hex.New(h.Q+offset.Q*int32(rank), h.R+offset.R*int32(rank))
}

// perpendicularDirection rotates a facing by one hex direction (60 degrees)
// to get the direction a line extends along.
func perpendicularDirection(facing hex.Direction) hex.Direction {
	switch facing {
	case hex.East:
		return hex.NorthEast
	case hex.NorthEast:
		return hex.NorthWest
	case hex.NorthWest:
		return hex.West
	case hex.West:
		return hex.SouthWest
	case hex.SouthWest:
		return hex.SouthEast
	case hex.SouthEast:
		return hex.East
	default:
		return facing
	}
}

// ComputeFormationPositions converts an abstract FormationShape into concrete
// hex positions around center, facing the given direction.
func ComputeFormationPositions(center hex.Coord, facing hex.Direction, shape units.FormationShape, unitCount int) []hex.Coord {
	switch shape.Kind {
	case units.ShapeLine:
		return computeLinePositions(center, facing, int(shape.Depth), unitCount)
	case units.ShapeColumn:
		return computeColumnPositions(center, facing, int(shape.Width), unitCount)
	case units.ShapeWedge:
		return computeWedgePositions(center, facing, unitCount)
	case units.ShapeSquare:
		return computeSquarePositions(center, facing, unitCount)
	case units.ShapeSkirmish:
		return computeSkirmishPositions(center, shape.Dispersion, unitCount)
	default:
		return nil
	}
}

func computeLinePositions(center hex.Coord, facing hex.Direction, depth, unitCount int) []hex.Coord {
	if depth < 1 {
		depth = 1
	}
	positions := make([]hex.Coord, 0, unitCount)

	lineDir := perpendicularDirection(facing)
	lineOffset := lineDir.Offset()

	unitsPerRank := (unitCount + depth - 1) / depth
	if unitsPerRank < 1 {
		unitsPerRank = 1
	}
	halfWidth := int32(unitsPerRank / 2)

	rankOffset := facing.Opposite().Offset()

	for i := 0; i < unitCount; i++ {
		rank := int32(i / unitsPerRank)
		positionInRank := int32(i%unitsPerRank) - halfWidth

		linePos := hex.New(center.Q+lineOffset.Q*positionInRank, center.R+lineOffset.R*positionInRank)
		finalPos := hex.New(linePos.Q+rankOffset.Q*rank, linePos.R+rankOffset.R*rank)

		positions = append(positions, finalPos)
	}

	return positions
}

func computeColumnPositions(center hex.Coord, facing hex.Direction, width, unitCount int) []hex.Coord {
	if width < 1 {
		width = 1
	}
	positions := make([]hex.Coord, 0, unitCount)

	forwardOffset := facing.Offset()
	sideOffset := perpendicularDirection(facing).Offset()

	halfWidth := int32(width / 2)

	for i := 0; i < unitCount; i++ {
		row := int32(i / width)
		col := int32(i%width) - halfWidth

		pos := hex.New(
			center.Q+forwardOffset.Q*row+sideOffset.Q*col,
			center.R+forwardOffset.R*row+sideOffset.R*col,
		)

		positions = append(positions, pos)
	}

	return positions
}

func computeWedgePositions(center hex.Coord, facing hex.Direction, unitCount int) []hex.Coord {
	positions := make([]hex.Coord, 0, unitCount)
	positions = append(positions, center)

	leftDir := perpendicularDirection(facing)
	rightDir := leftDir.Opposite()
	backOffset := facing.Opposite().Offset()

	row := int32(1)
	placed := 1

	for placed < unitCount {
		for side := int32(0); side <= row; side++ {
			if placed >= unitCount {
				break
			}

			leftOffset := leftDir.Offset()
			leftPos := hex.New(
				center.Q+backOffset.Q*row+leftOffset.Q*side,
				center.R+backOffset.R*row+leftOffset.R*side,
			)
			positions = append(positions, leftPos)
			placed++

			if placed >= unitCount || side == 0 {
				continue
			}

			rightOffset := rightDir.Offset()
			rightPos := hex.New(
				center.Q+backOffset.Q*row+rightOffset.Q*side,
				center.R+backOffset.R*row+rightOffset.R*side,
			)
			positions = append(positions, rightPos)
			placed++
		}

		row++
	}

	return positions
}

func computeSquarePositions(center hex.Coord, facing hex.Direction, unitCount int) []hex.Coord {
	positions := make([]hex.Coord, 0, unitCount)

	sideLength := isqrtCeil(unitCount)
	if sideLength < 1 {
		sideLength = 1
	}

	forwardOffset := facing.Offset()
	sideOffset := perpendicularDirection(facing).Offset()

	halfSide := int32(sideLength / 2)

	for i := 0; i < unitCount; i++ {
		row := int32(i/sideLength) - halfSide
		col := int32(i%sideLength) - halfSide

		pos := hex.New(
			center.Q+forwardOffset.Q*row+sideOffset.Q*col,
			center.R+forwardOffset.R*row+sideOffset.R*col,
		)

		positions = append(positions, pos)
	}

	return positions
}

func isqrtCeil(n int) int {
	if n <= 0 {
		return 0
	}
	r := 1
	for r*r < n {
		r++
	}
	return r
}

func computeSkirmishPositions(center hex.Coord, dispersion float32, unitCount int) []hex.Coord {
	positions := make([]hex.Coord, 0, unitCount)
	positions = append(positions, center)

	spacing := int32(dispersion * 2.0)
	if spacing < 1 {
		spacing = 1
	}

	placed := 1
	ring := uint32(1)

	for placed < unitCount {
		ringHexes := center.HexesInRange(ring * uint32(spacing))

		for _, h := range ringHexes {
			if placed >= unitCount {
				break
			}
			dist := center.Distance(h)
			if dist >= ring && dist < ring+1 {
				positions = append(positions, h)
				placed++
			}
		}

		ring++

		if ring > 20 {
			break
		}
	}

	return positions
}
