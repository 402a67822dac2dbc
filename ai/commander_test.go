package ai

import (
	"testing"

	"github.com/nstehr/vimy-core/battlemap"
	"github.com/nstehr/vimy-core/courier"
	"github.com/nstehr/vimy-core/execution"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/units"
)

func newTestBattle() *execution.BattleState {
	m := battlemap.New(30, 30)
	friendly := units.NewArmy(ids.NewArmyID(), ids.NewEntityID())
	enemy := units.NewArmy(ids.NewArmyID(), ids.NewEntityID())
	enemy.CourierPool = append(enemy.CourierPool, ids.NewEntityID())
	return execution.New(m, friendly, enemy)
}

// dispatchedOrderFor returns the in-flight courier order addressed to
// unitID, if the commander dispatched one.
func dispatchedOrderFor(state *execution.BattleState, unitID ids.UnitID) (courier.Order, bool) {
	for _, c := range state.CourierSystem.InFlight {
		if c.Order.Target.Kind == courier.TargetUnit && c.Order.Target.Unit == unitID {
			return c.Order, true
		}
	}
	return courier.Order{}, false
}

func unitAt(pos hex.Coord, stance units.Stance) *units.Unit {
	u := testUnit(pos, 50)
	u.Stance = stance
	return u
}

func TestCommanderCreation(t *testing.T) {
	commander := NewCommander(DefaultPersonality())
	if commander.IgnoresFogOfWar() {
		t.Fatal("default personality should not ignore fog of war")
	}
}

func TestCommanderWithSeed(t *testing.T) {
	commander := NewCommanderWithSeed(DefaultPersonality(), 12345)
	if commander.IgnoresFogOfWar() {
		t.Fatal("default personality should not ignore fog of war")
	}
}

func TestCommanderDecideNoUnitsReturnsNoOrders(t *testing.T) {
	state := newTestBattle()
	commander := NewCommander(DefaultPersonality())

	commander.Decide(state)

	if len(state.CourierSystem.InFlight) != 0 {
		t.Fatalf("in-flight couriers = %d, want 0", len(state.CourierSystem.InFlight))
	}
}

func TestCommanderAttacksVisibleEnemy(t *testing.T) {
	personality := DefaultPersonality()
	personality.Behavior.Aggression = 0.8
	personality.Preferences.ReEvaluationInterval = 1
	personality.Difficulty.MistakeChance = 0.0
	personality.Difficulty.IgnoresFogOfWar = true

	commander := NewCommander(personality)
	state := newTestBattle()

	ownFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	ownUnit := unitAt(hex.New(5, 5), units.Formed)
	ownFormation.Units = append(ownFormation.Units, ownUnit)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, ownFormation)

	enemyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	targetUnit := unitAt(hex.New(10, 5), units.Formed)
	enemyFormation.Units = append(enemyFormation.Units, targetUnit)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, enemyFormation)

	commander.Decide(state)

	order, ok := dispatchedOrderFor(state, ownUnit.ID)
	if !ok {
		t.Fatal("expected an order dispatched by courier for the attacking unit")
	}
	if order.OrderType.Kind != courier.OrderAttack {
		t.Fatalf("order kind = %v, want OrderAttack", order.OrderType.Kind)
	}
	if order.OrderType.TargetUnit != targetUnit.ID {
		t.Fatalf("attack target = %v, want %v", order.OrderType.TargetUnit, targetUnit.ID)
	}
}

func TestCommanderRetreatsWhenOutnumbered(t *testing.T) {
	personality := DefaultPersonality()
	personality.Weights.RetreatThreshold = 0.5
	personality.Preferences.ReEvaluationInterval = 1
	personality.Difficulty.MistakeChance = 0.0
	personality.Difficulty.IgnoresFogOfWar = true

	commander := NewCommander(personality)
	state := newTestBattle()
	state.EnemyArmy.HQPosition = hex.New(0, 0)

	smallFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	smallUnit := unitAt(hex.New(10, 10), units.Formed)
	smallUnit.Elements = nil
	smallUnit.Elements = append(smallUnit.Elements, units.NewElement(make([]ids.EntityID, 20)))
	smallFormation.Units = append(smallFormation.Units, smallUnit)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, smallFormation)

	largeFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	largeUnit := unitAt(hex.New(12, 10), units.Formed)
	largeUnit.Elements = nil
	largeUnit.Elements = append(largeUnit.Elements, units.NewElement(make([]ids.EntityID, 200)))
	largeFormation.Units = append(largeFormation.Units, largeUnit)
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, largeFormation)

	commander.Decide(state)

	order, ok := dispatchedOrderFor(state, smallUnit.ID)
	if !ok {
		t.Fatal("expected a retreat order dispatched by courier")
	}
	if order.OrderType.Kind != courier.OrderMoveTo {
		t.Fatalf("order kind = %v, want OrderMoveTo", order.OrderType.Kind)
	}
	if got := order.OrderType.Destination; got != hex.New(0, 0) {
		t.Fatalf("retreat destination = %v, want HQ (0,0)", got)
	}
}

func TestCommanderRespectsEvaluationInterval(t *testing.T) {
	personality := DefaultPersonality()
	personality.Preferences.ReEvaluationInterval = 10
	personality.Behavior.Aggression = 0.8
	personality.Difficulty.MistakeChance = 0.0
	personality.Difficulty.IgnoresFogOfWar = true

	commander := NewCommander(personality)
	state := newTestBattle()

	ownFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	ownUnit := unitAt(hex.New(5, 5), units.Formed)
	ownFormation.Units = append(ownFormation.Units, ownUnit)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, ownFormation)

	enemyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	enemyFormation.Units = append(enemyFormation.Units, unitAt(hex.New(10, 5), units.Formed))
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, enemyFormation)

	// First tick should evaluate.
	state.Tick = 0
	commander.Decide(state)
	if _, ok := dispatchedOrderFor(state, ownUnit.ID); !ok {
		t.Fatal("expected the first evaluation to issue an order")
	}

	// Reset so the next check can tell whether a *new* evaluation happened.
	state.CourierSystem.InFlight = nil

	// Tick 5 should not evaluate (interval is 10).
	state.Tick = 5
	commander.Decide(state)
	if _, ok := dispatchedOrderFor(state, ownUnit.ID); ok {
		t.Fatal("expected tick 5 to skip evaluation")
	}

	// Tick 10 should evaluate again.
	state.Tick = 10
	commander.Decide(state)
	if _, ok := dispatchedOrderFor(state, ownUnit.ID); !ok {
		t.Fatal("expected tick 10 to evaluate")
	}
}

func TestClearPending(t *testing.T) {
	commander := NewCommander(DefaultPersonality())

	unit1 := ids.NewUnitID()
	unit2 := ids.NewUnitID()
	unit3 := ids.NewUnitID()

	commander.pendingOrders = append(commander.pendingOrders, unit1, unit2, unit3)
	commander.ClearPending([]ids.UnitID{unit1, unit3})

	if len(commander.pendingOrders) != 1 {
		t.Fatalf("pending = %d, want 1", len(commander.pendingOrders))
	}
	if commander.pendingOrders[0] != unit2 {
		t.Fatal("expected unit2 to remain pending")
	}
}

func TestSetPhaseManager(t *testing.T) {
	commander := NewCommander(DefaultPersonality())

	manager := NewPhasePlanManager()
	manager.AddPhase(PhasePlan{
		Name:               "Opening",
		AggressionModifier: -0.2,
		Transition:         PhaseTransition{Kind: TransitionTimeElapsed, Tick: 10},
	})

	commander.SetPhaseManager(manager)

	if commander.phaseManager.CurrentPhase().Name != "Opening" {
		t.Fatalf("phase = %q, want Opening", commander.phaseManager.CurrentPhase().Name)
	}
}

func TestDefensiveCommanderMovesTowardsEnemy(t *testing.T) {
	personality := DefaultPersonality()
	personality.Behavior.Aggression = 0.3
	personality.Preferences.ReEvaluationInterval = 1
	personality.Difficulty.MistakeChance = 0.0
	personality.Difficulty.IgnoresFogOfWar = true

	commander := NewCommander(personality)
	state := newTestBattle()

	ownFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	ownUnit := unitAt(hex.New(0, 0), units.Formed)
	ownFormation.Units = append(ownFormation.Units, ownUnit)
	state.EnemyArmy.Formations = append(state.EnemyArmy.Formations, ownFormation)

	enemyFormation := units.NewFormation(ids.NewFormationID(), ids.NewEntityID())
	enemyFormation.Units = append(enemyFormation.Units, unitAt(hex.New(10, 0), units.Formed))
	state.FriendlyArmy.Formations = append(state.FriendlyArmy.Formations, enemyFormation)

	commander.Decide(state)

	order, ok := dispatchedOrderFor(state, ownUnit.ID)
	if !ok {
		t.Fatal("expected a move order toward the midpoint")
	}
	if order.OrderType.Kind != courier.OrderMoveTo {
		t.Fatalf("order kind = %v, want OrderMoveTo", order.OrderType.Kind)
	}
}
