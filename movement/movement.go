// Package movement advances units along their waypoint plans, respecting
// terrain, pace, and wait conditions.
package movement

import (
	"github.com/nstehr/vimy-core/battlemap"
	"github.com/nstehr/vimy-core/constants"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/pathfinding"
	"github.com/nstehr/vimy-core/planning"
	"github.com/nstehr/vimy-core/unittype"
	"github.com/nstehr/vimy-core/units"
)

// Result is the outcome of advancing a unit's movement by one tick.
type Result struct {
	Moved           bool
	ReachedWaypoint bool
	FatigueDelta    float32
	PathBlocked     bool
}

func isCavalryType(t unittype.Type) bool {
	return t == unittype.LightCavalry || t == unittype.HeavyCavalry
}

// baseSpeed returns the base movement speed for a unit type and pace, in
// hexes per tick.
func baseSpeed(unitType unittype.Type, pace planning.MovementPace) float32 {
	if isCavalryType(unitType) {
		switch pace {
		case planning.PaceWalk:
			return constants.CavalryWalkSpeed
		case planning.PaceQuick:
			return constants.CavalryTrotSpeed
		case planning.PaceRun:
			return constants.CavalryTrotSpeed * 1.5
		case planning.PaceCharge:
			return constants.CavalryChargeSpeed
		default:
			return constants.CavalryTrotSpeed
		}
	}

	switch pace {
	case planning.PaceWalk:
		return constants.InfantryWalkSpeed
	case planning.PaceQuick:
		return constants.InfantryWalkSpeed * 1.5
	case planning.PaceRun:
		return constants.InfantryRunSpeed
	case planning.PaceCharge:
		return constants.InfantryRunSpeed * 1.5
	default:
		return constants.InfantryWalkSpeed
	}
}

// IsWaiting reports whether a unit is blocked at its current waypoint by a
// wait condition, with no context beyond the plan and current tick (see
// IsWaitingWithContext for conditions that need battlefield state).
func IsWaiting(plan *planning.WaypointPlan, currentTick uint64) bool {
	waypoint := plan.Current()
	if waypoint == nil {
		return false
	}

	if waypoint.WaitCondition == nil {
		return false
	}

	switch waypoint.WaitCondition.Kind {
	case planning.WaitDuration:
		if plan.WaitStartTick == nil {
			return false
		}
		return currentTick < *plan.WaitStartTick+waypoint.WaitCondition.Ticks
	default:
		return true
	}
}

// UnitPosition pairs a unit with its current location, for UnitArrives wait
// checks.
type UnitPosition struct {
	UnitID   ids.UnitID
	Position hex.Coord
}

// IsWaitingWithContext extends IsWaiting to resolve every wait condition
// that needs battlefield state beyond the plan itself:
//   - UnitArrives: wait until the target unit arrives at THIS waypoint
//   - EnemySighted: wait until an enemy is visible
//   - Attacked: wait until this unit is under attack
func IsWaitingWithContext(
	plan *planning.WaypointPlan,
	currentTick uint64,
	unitPositions []UnitPosition,
	enemyVisibleHexes []hex.Coord,
	unitsUnderAttack []ids.UnitID,
) bool {
	waypoint := plan.Current()
	if waypoint == nil {
		return false
	}

	if waypoint.WaitCondition == nil {
		return false
	}

	switch waypoint.WaitCondition.Kind {
	case planning.WaitDuration:
		if plan.WaitStartTick == nil {
			return false
		}
		return currentTick < *plan.WaitStartTick+waypoint.WaitCondition.Ticks

	case planning.WaitGoCode:
		return true

	case planning.WaitUnitArrives:
		for _, up := range unitPositions {
			if up.UnitID == waypoint.WaitCondition.UnitID && up.Position == waypoint.Position {
				return false
			}
		}
		return true

	case planning.WaitEnemySighted:
		return len(enemyVisibleHexes) == 0

	case planning.WaitAttacked:
		for _, u := range unitsUnderAttack {
			if u == plan.UnitID {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// AdvanceUnitMovement moves unit one step toward its current waypoint,
// applying waypoint behavior on arrival.
func AdvanceUnitMovement(m *battlemap.Map, unit *units.Unit, plan *planning.WaypointPlan) Result {
	var result Result

	if unit.Stance != units.Moving && unit.Stance != units.Formed {
		return result
	}

	waypoint := plan.Current()
	if waypoint == nil {
		return result
	}

	if unit.Position == waypoint.Position {
		result.ReachedWaypoint = true

		switch waypoint.Behavior {
		case planning.MoveTo:
			plan.Advance()
		case planning.HoldAt:
			unit.Stance = units.Formed
		case planning.AttackFrom:
			unit.Stance = units.Alert
		case planning.ScanFrom:
			unit.Stance = units.Patrol
		case planning.RallyAt:
			unit.Stance = units.Formed
		}

		return result
	}

	isCavalry := isCavalryType(unit.UnitType)

	path := pathfinding.FindPath(m, unit.Position, waypoint.Position, isCavalry)
	if path == nil {
		result.PathBlocked = true
		return result
	}

	speed := baseSpeed(unit.UnitType, waypoint.Pace)
	fatigueModifier := 1.0 - unit.Fatigue*0.3
	effectiveSpeed := speed * fatigueModifier * waypoint.Pace.SpeedMultiplier()

	if len(path) > 1 {
		if effectiveSpeed >= 0.05 {
			unit.Position = path[1]
			unit.Stance = units.Moving
			result.Moved = true
			result.FatigueDelta = constants.FatigueRateMarch * waypoint.Pace.FatigueMultiplier()
		}
	}

	return result
}

// MoveRoutingUnit moves a routing unit one step toward retreatDirection,
// reporting whether it moved.
func MoveRoutingUnit(m *battlemap.Map, unit *units.Unit, retreatDirection hex.Coord) bool {
	if unit.Stance != units.Routing {
		return false
	}

	isCavalry := isCavalryType(unit.UnitType)

	path := pathfinding.FindPath(m, unit.Position, retreatDirection, isCavalry)
	if path != nil && len(path) > 1 {
		unit.Position = path[1]
		return true
	}

	return false
}
