package morale

import (
	"testing"

	"github.com/nstehr/vimy-core/constants"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/unittype"
	"github.com/nstehr/vimy-core/units"
)

func manned(unitType unittype.Type, count int) *units.Unit {
	u := units.NewUnit(ids.NewUnitID(), unitType)
	entities := make([]ids.EntityID, count)
	for i := range entities {
		entities[i] = ids.NewEntityID()
	}
	u.Elements = append(u.Elements, units.NewElement(entities))
	return u
}

func TestUnitBreaksWhenStressExceedsThreshold(t *testing.T) {
	unit := manned(unittype.Infantry, 50)
	unit.Stress = 1.2

	result := CheckMoraleBreak(unit)

	if !result.Breaks {
		t.Fatal("expected unit to break")
	}
}

func TestUnitHoldsWithLowStress(t *testing.T) {
	unit := manned(unittype.Infantry, 50)
	unit.Stress = 0.1

	result := CheckMoraleBreak(unit)

	if result.Breaks {
		t.Fatal("expected unit to hold")
	}
}

func TestRoutingUnitCanRallyWhenSafe(t *testing.T) {
	unit := manned(unittype.Infantry, 50)
	unit.Stance = units.Routing
	unit.Stress = 0.3

	result := CheckRally(unit, false, false)

	if !result.Rallies {
		t.Fatal("expected unit to rally")
	}
}

func TestRoutingUnitCantRallyNearEnemy(t *testing.T) {
	unit := manned(unittype.Infantry, 50)
	unit.Stance = units.Routing
	unit.Stress = 0.3

	result := CheckRally(unit, true, false)

	if result.Rallies {
		t.Fatal("expected no rally near enemy")
	}
}

func TestContagionStress(t *testing.T) {
	unit := manned(unittype.Infantry, 0)

	stress0 := CalculateContagionStress(unit, 0)
	stress2 := CalculateContagionStress(unit, 2)

	if stress0 != 0.0 {
		t.Fatalf("stress0 = %v, want 0", stress0)
	}
	if !(stress2 > 0.0) {
		t.Fatal("stress2 should be positive")
	}
	if stress2 != 2.0*constants.ContagionStress {
		t.Fatalf("stress2 = %v, want %v", stress2, 2.0*constants.ContagionStress)
	}
}

func TestApplyStressClamped(t *testing.T) {
	unit := manned(unittype.Infantry, 0)
	unit.Stress = 1.9

	ApplyStress(unit, 0.5)

	if unit.Stress != 2.0 {
		t.Fatalf("stress = %v, want 2.0", unit.Stress)
	}
}

func TestLeaderHelpsRally(t *testing.T) {
	unit := manned(unittype.Infantry, 50)
	unit.Stance = units.Routing
	unit.Stress = 0.6

	if CheckRally(unit, false, false).Rallies {
		t.Fatal("should not rally without leader at stress 0.6")
	}
	if !CheckRally(unit, false, true).Rallies {
		t.Fatal("should rally with leader present")
	}
}

func TestRoutingUnitCannotBreakAgain(t *testing.T) {
	unit := manned(unittype.Infantry, 50)
	unit.Stance = units.Routing
	unit.Stress = 2.0

	result := CheckMoraleBreak(unit)

	if result.Breaks {
		t.Fatal("already-routing unit should not break again")
	}
}

func TestRoutingUnitNoContagionStress(t *testing.T) {
	unit := manned(unittype.Infantry, 0)
	unit.Stance = units.Routing

	stress := CalculateContagionStress(unit, 5)

	if stress != 0.0 {
		t.Fatalf("stress = %v, want 0", stress)
	}
}

func TestOfficerDeathStress(t *testing.T) {
	if stress := CalculateOfficerDeathStress(true, true); stress != constants.OfficerDeathStress {
		t.Fatalf("stress = %v, want %v", stress, constants.OfficerDeathStress)
	}
	if stress := CalculateOfficerDeathStress(false, true); stress != 0.0 {
		t.Fatalf("stress = %v, want 0", stress)
	}
	if stress := CalculateOfficerDeathStress(true, false); stress != 0.0 {
		t.Fatalf("stress = %v, want 0", stress)
	}
}

func TestProcessMoraleBreak(t *testing.T) {
	unit := manned(unittype.Infantry, 0)
	unit.Cohesion = 0.9
	unit.Stance = units.Formed

	ProcessMoraleBreak(unit)

	if unit.Stance != units.Routing {
		t.Fatalf("stance = %v, want Routing", unit.Stance)
	}
	if !(unit.Cohesion < 0.5) {
		t.Fatalf("cohesion = %v, want < 0.5", unit.Cohesion)
	}
}

func TestProcessRally(t *testing.T) {
	unit := manned(unittype.Infantry, 0)
	unit.Stance = units.Routing

	ProcessRally(unit)

	if unit.Stance != units.Rallying {
		t.Fatalf("stance = %v, want Rallying", unit.Stance)
	}
}

func TestApplyStressMinimumClamped(t *testing.T) {
	unit := manned(unittype.Infantry, 0)
	unit.Stress = 0.1

	ApplyStress(unit, -0.5)

	if unit.Stress != 0.0 {
		t.Fatalf("stress = %v, want 0.0", unit.Stress)
	}
}

func TestNonRoutingUnitCannotRally(t *testing.T) {
	unit := manned(unittype.Infantry, 50)
	unit.Stance = units.Formed
	unit.Stress = 0.1

	result := CheckRally(unit, false, true)

	if result.Rallies {
		t.Fatal("non-routing unit should not rally")
	}
}
