package engagement

import (
	"testing"

	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/planning"
	"github.com/nstehr/vimy-core/unittype"
	"github.com/nstehr/vimy-core/units"
)

func entities(n int) []ids.EntityID {
	out := make([]ids.EntityID, n)
	for i := range out {
		out[i] = ids.NewEntityID()
	}
	return out
}

func manned(position hex.Coord) *units.Unit {
	u := units.NewUnit(ids.NewUnitID(), unittype.Infantry)
	u.Position = position
	u.Elements = append(u.Elements, units.NewElement(entities(50)))
	return u
}

func TestAdjacentUnitsEngage(t *testing.T) {
	attacker := manned(hex.New(5, 5))
	defender := manned(hex.New(6, 5))

	if Detect(attacker, defender) == nil {
		t.Fatal("expected engagement")
	}
}

func TestDistantUnitsDontEngage(t *testing.T) {
	attacker := manned(hex.New(0, 0))
	defender := manned(hex.New(10, 10))

	if Detect(attacker, defender) != nil {
		t.Fatal("expected no engagement")
	}
}

func TestBrokenUnitCantEngage(t *testing.T) {
	attacker := manned(hex.New(5, 5))
	attacker.Stance = units.Routing
	defender := manned(hex.New(6, 5))

	if Detect(attacker, defender) != nil {
		t.Fatal("expected no engagement for routing attacker")
	}
}

func TestIsFlanked(t *testing.T) {
	unit := units.NewUnit(ids.NewUnitID(), unittype.Infantry)
	unit.Position = hex.New(5, 5)
	unit.Facing = hex.East

	enemyAtRear := []hex.Coord{hex.New(4, 5)}
	if !IsFlanked(unit, enemyAtRear) {
		t.Fatal("expected flanked with enemy at rear")
	}

	enemyInFront := []hex.Coord{hex.New(6, 5)}
	if IsFlanked(unit, enemyInFront) {
		t.Fatal("expected not flanked with enemy in front")
	}
}

func TestIsSurrounded(t *testing.T) {
	unit := units.NewUnit(ids.NewUnitID(), unittype.Infantry)
	unit.Position = hex.New(5, 5)

	twoEnemies := []hex.Coord{hex.New(6, 5), hex.New(4, 5)}
	if IsSurrounded(unit, twoEnemies) {
		t.Fatal("2 enemies should not surround")
	}

	threeEnemies := []hex.Coord{hex.New(6, 5), hex.New(4, 5), hex.New(5, 6)}
	if !IsSurrounded(unit, threeEnemies) {
		t.Fatal("3 enemies should surround")
	}
}

func TestEngagementRules(t *testing.T) {
	if !ShouldInitiateCombat(planning.Aggressive, false) {
		t.Fatal("aggressive should always initiate")
	}
	if ShouldInitiateCombat(planning.Defensive, false) {
		t.Fatal("defensive should not initiate unprovoked")
	}
	if !ShouldInitiateCombat(planning.Defensive, true) {
		t.Fatal("defensive should initiate when attacked")
	}
	if ShouldInitiateCombat(planning.HoldFire, true) {
		t.Fatal("hold fire should never initiate")
	}
}

func TestFindAllEngagements(t *testing.T) {
	friendly1 := manned(hex.New(5, 5))
	friendly2 := manned(hex.New(0, 0))
	enemy1 := manned(hex.New(6, 5))

	engagements := FindAll([]*units.Unit{friendly1, friendly2}, []*units.Unit{enemy1})

	if len(engagements) != 1 {
		t.Fatalf("len = %d, want 1", len(engagements))
	}
	if engagements[0].AttackerID != friendly1.ID {
		t.Fatal("attacker mismatch")
	}
	if engagements[0].DefenderID != enemy1.ID {
		t.Fatal("defender mismatch")
	}
}

func TestUnitWithNoStrengthCantEngage(t *testing.T) {
	attacker := units.NewUnit(ids.NewUnitID(), unittype.Infantry)
	attacker.Position = hex.New(5, 5)
	defender := manned(hex.New(6, 5))

	if Detect(attacker, defender) != nil {
		t.Fatal("expected no engagement for empty unit")
	}
}

func TestRallyingUnitCantEngage(t *testing.T) {
	attacker := manned(hex.New(5, 5))
	attacker.Stance = units.Rallying
	defender := manned(hex.New(6, 5))

	if Detect(attacker, defender) != nil {
		t.Fatal("expected no engagement for rallying attacker")
	}
}

func TestEngagementDistanceIsCorrect(t *testing.T) {
	attacker := manned(hex.New(5, 5))
	defender := manned(hex.New(6, 5))

	result := Detect(attacker, defender)
	if result == nil {
		t.Fatal("expected engagement")
	}
	if result.Distance != 1 {
		t.Fatalf("distance = %d, want 1", result.Distance)
	}
}

func TestSkirmishRuleInitiatesCombat(t *testing.T) {
	if !ShouldInitiateCombat(planning.Skirmish, false) {
		t.Fatal("skirmish should initiate unprovoked")
	}
	if !ShouldInitiateCombat(planning.Skirmish, true) {
		t.Fatal("skirmish should initiate when attacked")
	}
}
