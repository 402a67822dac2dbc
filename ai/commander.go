package ai

import (
	"math/rand/v2"

	"github.com/nstehr/vimy-core/courier"
	"github.com/nstehr/vimy-core/execution"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/units"
)

// Commander is the deterministic AI battle commander: a personality, a
// phase plan, a pending-orders list, and its own seeded RNG for mistake
// rolls. The pending list is emptied at the start of every evaluation, so it
// keeps a unit from being ordered twice within one evaluation only; a unit
// can receive a new order every evaluation cycle whether or not its previous
// order has been delivered. It implements execution.AICommander.
type Commander struct {
	Personality Personality

	phaseManager       *PhasePlanManager
	lastEvaluationTick *uint64
	rng                *rand.Rand
	pendingOrders      []ids.UnitID
	courierCursor      int
}

// NewCommander returns a commander with the default deterministic seed.
func NewCommander(personality Personality) *Commander {
	return NewCommanderWithSeed(personality, 42)
}

// NewCommanderWithSeed returns a commander seeded for reproducible mistake rolls.
func NewCommanderWithSeed(personality Personality, seed uint64) *Commander {
	return &Commander{
		Personality:  personality,
		phaseManager: NewPhasePlanManager(),
		rng:          rand.New(rand.NewPCG(seed, seed)),
	}
}

// SetPhaseManager replaces the commander's phase plan.
func (c *Commander) SetPhaseManager(manager *PhasePlanManager) {
	c.phaseManager = manager
}

// IgnoresFogOfWar reports whether the commander's difficulty setting lets it
// see the whole enemy army regardless of visibility.
func (c *Commander) IgnoresFogOfWar() bool {
	return c.Personality.Difficulty.IgnoresFogOfWar
}

func (c *Commander) shouldEvaluate(currentTick uint64) bool {
	if c.lastEvaluationTick == nil {
		return true
	}
	interval := c.Personality.Preferences.ReEvaluationInterval
	return currentTick >= *c.lastEvaluationTick+interval
}

func (c *Commander) makesMistake() bool {
	return c.rng.Float32() < c.Personality.Difficulty.MistakeChance
}

// Decide implements execution.AICommander. It re-evaluates the tactical
// situation (if the evaluation interval has elapsed) and hands any
// resulting orders to the enemy side's own courier pool, the same way a
// player's orders travel to the friendly side: the AI pays courier travel
// time and risks interception just like its opponent.
func (c *Commander) Decide(state *execution.BattleState) {
	context := NewDecisionContext(state.EnemyArmy, state.FriendlyArmy, state.EnemyVisibility, state.Tick, c.IgnoresFogOfWar())

	c.phaseManager.Update(state.Tick, context.StrengthRatio(), context.OwnCasualtyPercentage())

	if !c.shouldEvaluate(state.Tick) {
		return
	}
	tick := state.Tick
	c.lastEvaluationTick = &tick

	for _, order := range c.evaluateTactical(context) {
		c.dispatch(state, order)
	}
}

// dispatch hands order to a fresh courier riding from the enemy HQ to the
// order's destination, mirroring battle.dispatch for the friendly side.
func (c *Commander) dispatch(state *execution.BattleState, order courier.Order) {
	army := state.EnemyArmy
	if len(army.CourierPool) == 0 {
		return
	}
	destination := courier.ResolveDestination(army, order)
	courierEntity := courier.NextCourier(army, &c.courierCursor)
	state.CourierSystem.Dispatch(courierEntity, order, army.HQPosition, destination)
}

func (c *Commander) evaluateTactical(context *DecisionContext) []courier.Order {
	// Previous orders should have taken effect by now; the re-evaluation
	// interval is expected to exceed however long an order takes to apply.
	c.pendingOrders = nil

	phase := c.phaseManager.CurrentPhase()
	aggression := clamp01(c.Personality.Behavior.Aggression + phase.AggressionModifier)

	if c.shouldRetreat(context) {
		return c.generateRetreatOrders(context)
	}

	var result []courier.Order
	for _, unit := range context.OwnUnits() {
		if !c.unitNeedsOrders(unit) || containsUnitID(c.pendingOrders, unit.ID) {
			continue
		}

		order, ok := c.decideUnitOrder(unit, context, aggression)
		if !ok {
			continue
		}

		if c.makesMistake() {
			continue
		}

		c.pendingOrders = append(c.pendingOrders, unit.ID)
		result = append(result, order)
	}

	return result
}

// unitNeedsOrders reports whether unit is in a stance that can receive new
// orders. Moving units may still be redirected if the situation changed.
func (c *Commander) unitNeedsOrders(unit *units.Unit) bool {
	switch unit.Stance {
	case units.Formed, units.Alert, units.Moving:
		return unit.CanFight()
	default:
		return false
	}
}

func (c *Commander) decideUnitOrder(unit *units.Unit, context *DecisionContext, aggression float32) (courier.Order, bool) {
	visibleEnemies := context.VisibleEnemyUnits()

	if len(visibleEnemies) == 0 {
		// No visible enemies, but a battle is underway: probe toward where
		// the enemy is known to have come from.
		return courier.MoveTo(unit.ID, context.EnemyHQPosition()), true
	}

	target, ok := c.selectTarget(unit, visibleEnemies)
	if !ok {
		return courier.Order{}, false
	}

	if aggression > 0.5 {
		return courier.Attack(unit.ID, target.ID), true
	}

	halfway := unit.Position.Lerp(target.Position, 0.5)
	return courier.MoveTo(unit.ID, halfway), true
}

// selectTarget scores every visible enemy by weakness, closeness, flanking
// opportunity, and whether it's already broken, then picks the highest score.
func (c *Commander) selectTarget(unit *units.Unit, enemies []*units.Unit) (*units.Unit, bool) {
	weights := c.Personality.Weights

	var best *units.Unit
	var bestScore float32
	found := false

	for _, enemy := range enemies {
		var score float32

		weakness := 1.0 - minF32(float32(enemy.EffectiveStrength())/100.0, 1.0)
		score += weakness * weights.AttackValue

		distance := float32(unit.Position.Distance(enemy.Position))
		closeness := 1.0 / (1.0 + distance*0.1)
		score += closeness * 0.5

		if enemy.IsEngaged() {
			score += weights.FlankingValue * 0.5
		}

		if enemy.IsBroken() {
			score += 1.0
		}

		if !found || score > bestScore {
			best, bestScore, found = enemy, score, true
		}
	}

	return best, found
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func containsUnitID(list []ids.UnitID, id ids.UnitID) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}

func (c *Commander) shouldRetreat(context *DecisionContext) bool {
	ratio := context.StrengthRatio()
	casualties := context.OwnCasualtyPercentage()
	return ratio < c.Personality.Weights.RetreatThreshold || casualties > c.Personality.Weights.CasualtyThreshold
}

func (c *Commander) generateRetreatOrders(context *DecisionContext) []courier.Order {
	hq := context.HQPosition()

	var result []courier.Order
	for _, unit := range context.OwnUnits() {
		if unit.CanFight() && !unit.IsBroken() {
			result = append(result, courier.MoveTo(unit.ID, hq))
		}
	}
	return result
}

// ClearPending removes delivered unit IDs from the pending-orders tracker so
// a future evaluation cycle can re-order them sooner than the next full
// evaluate_tactical reset.
func (c *Commander) ClearPending(deliveredUnitIDs []ids.UnitID) {
	filtered := c.pendingOrders[:0]
	for _, id := range c.pendingOrders {
		if !containsUnitID(deliveredUnitIDs, id) {
			filtered = append(filtered, id)
		}
	}
	c.pendingOrders = filtered
}
