// Package engagement detects melee contact between units: adjacency,
// flanking, and encirclement.
package engagement

import (
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/planning"
	"github.com/nstehr/vimy-core/units"
)

// Potential is a detected engagement between two units.
type Potential struct {
	AttackerID ids.UnitID
	DefenderID ids.UnitID
	Distance   uint32
}

// Detect reports the engagement between unitA and unitB, if any — both must
// be able to fight and be adjacent (distance 1).
func Detect(unitA, unitB *units.Unit) *Potential {
	if !unitA.CanFight() || !unitB.CanFight() {
		return nil
	}

	distance := unitA.Position.Distance(unitB.Position)
	if distance != 1 {
		return nil
	}

	return &Potential{AttackerID: unitA.ID, DefenderID: unitB.ID, Distance: distance}
}

// ShouldInitiateCombat reports whether a unit under the given engagement
// rule should initiate combat, given whether it is currently being attacked.
func ShouldInitiateCombat(rule planning.EngagementRule, isBeingAttacked bool) bool {
	switch rule {
	case planning.Aggressive:
		return true
	case planning.Defensive:
		return isBeingAttacked
	case planning.HoldFire:
		return false
	case planning.Skirmish:
		return true
	default:
		return false
	}
}

// FindAll returns every potential engagement between friendlyUnits and
// enemyUnits.
func FindAll(friendlyUnits, enemyUnits []*units.Unit) []Potential {
	var engagements []Potential

	for _, friendly := range friendlyUnits {
		for _, enemy := range enemyUnits {
			if e := Detect(friendly, enemy); e != nil {
				engagements = append(engagements, *e)
			}
		}
	}

	return engagements
}

// IsFlanked reports whether unit has an enemy directly behind it.
func IsFlanked(unit *units.Unit, enemyPositions []hex.Coord) bool {
	rearOffset := unit.Facing.Opposite().Offset()
	rearHex := hex.New(unit.Position.Q+rearOffset.Q, unit.Position.R+rearOffset.R)

	for _, p := range enemyPositions {
		if p == rearHex {
			return true
		}
	}
	return false
}

// IsSurrounded reports whether 3 or more of unit's adjacent hexes hold
// enemies.
func IsSurrounded(unit *units.Unit, enemyPositions []hex.Coord) bool {
	adjacentEnemies := 0
	for _, n := range unit.Position.Neighbors() {
		for _, p := range enemyPositions {
			if n == p {
				adjacentEnemies++
				break
			}
		}
	}

	return adjacentEnemies >= 3
}
