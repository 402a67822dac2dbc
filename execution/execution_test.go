package execution

import (
	"testing"

	"github.com/nstehr/vimy-core/battlemap"
	"github.com/nstehr/vimy-core/combat"
	"github.com/nstehr/vimy-core/courier"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/planning"
	"github.com/nstehr/vimy-core/unittype"
	"github.com/nstehr/vimy-core/units"
)

func newTestState() *BattleState {
	m := battlemap.New(20, 20)
	friendly := units.NewArmy(ids.NewArmyID(), ids.NewEntityID())
	enemy := units.NewArmy(ids.NewArmyID(), ids.NewEntityID())
	return New(m, friendly, enemy)
}

func manned(unitType unittype.Type, count int) *units.Unit {
	u := units.NewUnit(ids.NewUnitID(), unitType)
	entities := make([]ids.EntityID, count)
	for i := range entities {
		entities[i] = ids.NewEntityID()
	}
	u.Elements = append(u.Elements, units.NewElement(entities))
	return u
}

func TestBattleStateCreation(t *testing.T) {
	state := newTestState()

	if state.Tick != 0 {
		t.Fatalf("tick = %d, want 0", state.Tick)
	}
	if state.IsFinished() {
		t.Fatal("fresh battle should not be finished")
	}
}

func TestBattleTickIncrements(t *testing.T) {
	state := newTestState()
	state.AdvanceTick()

	if state.Tick != 1 {
		t.Fatalf("tick = %d, want 1", state.Tick)
	}
}

func TestBattlePhasePlanning(t *testing.T) {
	state := newTestState()

	if state.Phase != Planning {
		t.Fatalf("phase = %v, want Planning", state.Phase)
	}
}

func TestBattleStart(t *testing.T) {
	state := newTestState()
	state.StartBattle()

	if state.Phase != Active {
		t.Fatalf("phase = %v, want Active", state.Phase)
	}
	if len(state.BattleLog) != 1 {
		t.Fatalf("log len = %d, want 1", len(state.BattleLog))
	}
}

func TestBattleEnd(t *testing.T) {
	state := newTestState()
	state.EndBattle(Victory)

	if !state.IsFinished() {
		t.Fatal("expected battle to be finished")
	}
	if state.Outcome != Victory {
		t.Fatalf("outcome = %v, want Victory", state.Outcome)
	}
}

func TestCheckBattleEndEnemyDestroyed(t *testing.T) {
	state := newTestState()

	formation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	formation.Units = append(formation.Units, manned(unittype.Infantry, 50))
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, formation)

	outcome := CheckBattleEnd(state)
	if outcome == nil || *outcome != DecisiveVictory {
		t.Fatalf("outcome = %v, want DecisiveVictory", outcome)
	}
}

func TestCheckBattleEndMutualRout(t *testing.T) {
	state := newTestState()

	friendlyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	friendlyUnits := []*units.Unit{manned(unittype.Infantry, 10), manned(unittype.Infantry, 10)}
	friendlyUnits[0].Stance = units.Routing
	friendlyUnits[1].Stance = units.Routing
	friendlyFormation.Units = append(friendlyFormation.Units, friendlyUnits...)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, friendlyFormation)

	enemyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	enemyUnits := []*units.Unit{manned(unittype.Infantry, 10), manned(unittype.Infantry, 10)}
	enemyUnits[0].Stance = units.Routing
	enemyUnits[1].Stance = units.Routing
	enemyFormation.Units = append(enemyFormation.Units, enemyUnits...)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, enemyFormation)

	outcome := CheckBattleEnd(state)
	if outcome == nil || *outcome != MutualRout {
		t.Fatalf("outcome = %v, want MutualRout", outcome)
	}
}

func TestAdvanceTickStopsOnceFinished(t *testing.T) {
	state := newTestState()
	state.EndBattle(Draw)
	state.AdvanceTick()

	if state.Tick != 0 {
		t.Fatalf("tick = %d, want 0 (finished battle should not advance)", state.Tick)
	}
}

func TestAdvanceTickDeliversArrivedOrder(t *testing.T) {
	state := newTestState()

	unit := manned(unittype.Infantry, 20)
	unit.Position = hex.New(0, 0)
	formation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	formation.Units = append(formation.Units, unit)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, formation)

	// a distant enemy keeps the battle from ending before the order lands.
	enemy := manned(unittype.Infantry, 20)
	enemy.Position = hex.New(19, 19)
	enemyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	enemyFormation.Units = append(enemyFormation.Units, enemy)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, enemyFormation)

	destination := hex.New(0, 0) // courier arrives immediately: source == destination
	order := courier.MoveTo(unit.ID, destination)
	state.CourierSystem.Dispatch(ids.NewEntityID(), order, destination, destination)

	// a zero-distance courier still needs enough ticks for its progress to
	// reach 1.0 and consume its single-hex path before it is marked arrived.
	for i := 0; i < 3; i++ {
		state.AdvanceTick()
	}

	wp := state.FriendlyPlan.GetWaypointPlan(unit.ID)
	if wp == nil {
		t.Fatal("expected a waypoint plan to have been created from the delivered order")
	}
}

func TestAdvanceTickEngagesAdjacentUnits(t *testing.T) {
	state := newTestState()

	friendlyUnit := manned(unittype.Infantry, 50)
	friendlyUnit.Position = hex.New(5, 5)
	friendlyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	friendlyFormation.Units = append(friendlyFormation.Units, friendlyUnit)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, friendlyFormation)
	state.FriendlyPlan.EngagementRules = append(state.FriendlyPlan.EngagementRules,
		planning.EngagementRuleAssignment{UnitID: friendlyUnit.ID, Rule: planning.Aggressive})

	enemyUnit := manned(unittype.Infantry, 50)
	enemyUnit.Position = hex.New(6, 5)
	enemyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	enemyFormation.Units = append(enemyFormation.Units, enemyUnit)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, enemyFormation)

	state.AdvanceTick()

	if friendlyUnit.Stance != units.Engaged {
		t.Fatalf("friendly stance = %v, want Engaged", friendlyUnit.Stance)
	}
	if defenderCasualties := enemyUnit.Casualties; defenderCasualties == 0 {
		t.Fatal("expected the engaged enemy unit to have taken casualties")
	}
}

func TestAdvanceTickChargingCavalryDeliversShock(t *testing.T) {
	state := newTestState()

	cavalry := manned(unittype.HeavyCavalry, 50)
	cavalry.Position = hex.New(5, 5)
	cavalryFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	cavalryFormation.Units = append(cavalryFormation.Units, cavalry)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, cavalryFormation)
	state.FriendlyPlan.EngagementRules = append(state.FriendlyPlan.EngagementRules,
		planning.EngagementRuleAssignment{UnitID: cavalry.ID, Rule: planning.Aggressive})

	chargeWP := planning.NewWaypointPlan(cavalry.ID)
	chargeWP.AddWaypoint(planning.NewWaypoint(hex.New(6, 5), planning.AttackFrom).WithPace(planning.PaceCharge))
	state.FriendlyPlan.WaypointPlans = append(state.FriendlyPlan.WaypointPlans, chargeWP)

	infantry := manned(unittype.Infantry, 50)
	infantry.Position = hex.New(7, 5)
	infantryFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	infantryFormation.Units = append(infantryFormation.Units, infantry)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, infantryFormation)

	state.AdvanceTick()

	if infantry.Casualties == 0 {
		t.Fatal("expected the charged-into infantry to take casualties")
	}

	foundShock := false
	for _, e := range state.BattleLog {
		if e.Description == "cavalry charge struck home" {
			foundShock = true
		}
	}
	if !foundShock {
		t.Fatal("expected a shock-resolution event logged for the charge")
	}
}

func TestAdvanceTickRangedFireHitsOutOfMeleeRangeTarget(t *testing.T) {
	state := newTestState()

	archer := manned(unittype.Archers, 40)
	archer.Position = hex.New(5, 5)
	archerFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	archerFormation.Units = append(archerFormation.Units, archer)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, archerFormation)
	state.FriendlyPlan.EngagementRules = append(state.FriendlyPlan.EngagementRules,
		planning.EngagementRuleAssignment{UnitID: archer.ID, Rule: planning.Aggressive})

	target := manned(unittype.Infantry, 40)
	target.Position = hex.New(9, 5)
	targetFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	targetFormation.Units = append(targetFormation.Units, target)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, targetFormation)

	state.AdvanceTick()

	if archer.Fatigue == 0 {
		t.Fatal("expected the archer to pay a fatigue cost for loosing a volley")
	}
	if archer.Stance == units.Engaged {
		t.Fatal("ranged fire at a non-adjacent target should not mark the shooter engaged")
	}
}

func TestAdvanceTickRecordsLODPerCombat(t *testing.T) {
	state := newTestState()

	friendlyUnit := manned(unittype.Infantry, 50)
	friendlyUnit.Position = hex.New(5, 5)
	friendlyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	friendlyFormation.Units = append(friendlyFormation.Units, friendlyUnit)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, friendlyFormation)
	state.FriendlyPlan.EngagementRules = append(state.FriendlyPlan.EngagementRules,
		planning.EngagementRuleAssignment{UnitID: friendlyUnit.ID, Rule: planning.Aggressive})

	enemyUnit := manned(unittype.Infantry, 50)
	enemyUnit.Position = hex.New(6, 5)
	enemyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	enemyFormation.Units = append(enemyFormation.Units, enemyUnit)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, enemyFormation)

	state.AdvanceTick()

	if len(state.ActiveCombats) != 1 {
		t.Fatalf("active combats = %d, want 1", len(state.ActiveCombats))
	}
	if state.ActiveCombats[0].LOD != combat.LODUnit {
		t.Fatalf("LOD = %v, want LODUnit for a 100-strong fight away from any objective", state.ActiveCombats[0].LOD)
	}
}

func TestAdvanceTickBreaksAndRallies(t *testing.T) {
	state := newTestState()

	unit := manned(unittype.Infantry, 50)
	unit.Position = hex.New(2, 2)
	unit.Stress = 1.5
	// a second, steady unit keeps the army below the rout threshold, and a
	// distant enemy keeps the battle from ending at the first tick.
	steady := manned(unittype.Infantry, 50)
	steady.Position = hex.New(15, 2)
	formation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	formation.Units = append(formation.Units, unit, steady)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, formation)

	enemy := manned(unittype.Infantry, 50)
	enemy.Position = hex.New(18, 18)
	enemyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	enemyFormation.Units = append(enemyFormation.Units, enemy)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, enemyFormation)

	state.AdvanceTick()

	if unit.Stance != units.Routing {
		t.Fatalf("stance = %v, want Routing", unit.Stance)
	}
	if len(state.RoutingUnits) != 1 {
		t.Fatalf("routing units = %d, want 1", len(state.RoutingUnits))
	}

	// far from any enemy and low stress after the break: should rally and
	// then, after enough ticks, reform.
	unit.Stress = 0.1
	state.AdvanceTick()

	if unit.Stance != units.Rallying {
		t.Fatalf("stance = %v, want Rallying", unit.Stance)
	}

	for i := uint64(0); i < 31; i++ {
		state.AdvanceTick()
	}

	if unit.Stance != units.Formed {
		t.Fatalf("stance = %v, want Formed after reforming", unit.Stance)
	}
}

func TestAdvanceTickRoutingUnitRetreats(t *testing.T) {
	state := newTestState()

	unit := manned(unittype.Infantry, 50)
	unit.Position = hex.New(10, 10)
	unit.Stance = units.Routing
	formation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	formation.Units = append(formation.Units, unit)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, formation)
	state.RoutingUnits = append(state.RoutingUnits, RoutingUnit{UnitID: unit.ID})

	enemy := manned(unittype.Infantry, 50)
	enemy.Position = hex.New(11, 10)
	enemyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	enemyFormation.Units = append(enemyFormation.Units, enemy)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, enemyFormation)

	start := unit.Position
	state.AdvanceTick()

	if unit.Position == start {
		t.Fatal("expected the routing unit to have moved")
	}
}
