// Package execution drives the tick-by-tick battle simulation: couriers
// advance and deliver orders, go-codes and contingencies evaluate, units
// move, engagements resolve into combat, morale and rout play out, fog of
// war recomputes, the AI commander re-evaluates, and the battle-end
// condition is checked. advance_tick in the original source was a stub that
// only incremented the clock — every step below is this package's own.
package execution

import (
	"fmt"
	"math/rand/v2"

	"github.com/nstehr/vimy-core/battlemap"
	"github.com/nstehr/vimy-core/combat"
	"github.com/nstehr/vimy-core/constants"
	"github.com/nstehr/vimy-core/courier"
	"github.com/nstehr/vimy-core/engagement"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/morale"
	"github.com/nstehr/vimy-core/movement"
	"github.com/nstehr/vimy-core/orders"
	"github.com/nstehr/vimy-core/planning"
	"github.com/nstehr/vimy-core/triggers"
	"github.com/nstehr/vimy-core/units"
	"github.com/nstehr/vimy-core/visibility"
	"github.com/nstehr/vimy-core/weapons"
)

// BattlePhase is the battle's overall lifecycle stage.
type BattlePhase byte

const (
	Planning BattlePhase = iota
	Deployment
	Active
	Finished
)

// BattleOutcome is how a finished battle resolved. MutualRout is not present
// in the original source despite its own scoring code referencing it; added
// as an eighth variant (see the grounding ledger).
type BattleOutcome byte

const (
	Undecided BattleOutcome = iota
	DecisiveVictory
	Victory
	PyrrhicVictory
	Draw
	Defeat
	DecisiveDefeat
	MutualRout
)

func (o BattleOutcome) String() string {
	switch o {
	case Undecided:
		return "Undecided"
	case DecisiveVictory:
		return "DecisiveVictory"
	case Victory:
		return "Victory"
	case PyrrhicVictory:
		return "PyrrhicVictory"
	case Draw:
		return "Draw"
	case Defeat:
		return "Defeat"
	case DecisiveDefeat:
		return "DecisiveDefeat"
	case MutualRout:
		return "MutualRout"
	default:
		return "Unknown"
	}
}

// BattleEventKind discriminates the BattleEventType variant in play.
type BattleEventKind byte

const (
	EventBattleStarted BattleEventKind = iota
	EventUnitEngaged
	EventUnitBroke
	EventUnitRallied
	EventCommanderKilled
	EventObjectiveCaptured
	EventCourierIntercepted
	EventGoCodeTriggered
	EventBattleEnded
)

// BattleEventType carries the payload for one kind of battle event.
type BattleEventType struct {
	Kind     BattleEventKind
	UnitID   ids.UnitID
	EntityID ids.EntityID
	Name     string
	Outcome  BattleOutcome
}

// BattleEvent is one entry in the battle log.
type BattleEvent struct {
	Tick        uint64
	EventType   BattleEventType
	Description string
}

// RoutingUnit tracks a unit's retreat progress while routing.
type RoutingUnit struct {
	UnitID          ids.UnitID
	RetreatProgress float32
}

// ActiveCombat tracks how long two units have been slugging it out.
type ActiveCombat struct {
	AttackerUnit ids.UnitID
	DefenderUnit ids.UnitID
	TicksEngaged uint32
	LOD          combat.LOD
}

// AICommander is implemented by ai.Commander, which battle.NewBattle wires in
// as EnemyCommander; hooked in as step 9 of the tick pipeline. A nil
// commander simply skips that step.
type AICommander interface {
	Decide(state *BattleState)
}

// BattleState is the complete state of one battle in progress.
type BattleState struct {
	Map          *battlemap.Map
	FriendlyArmy *units.Army
	EnemyArmy    *units.Army

	Tick    uint64
	Phase   BattlePhase
	Outcome BattleOutcome

	FriendlyPlan *planning.BattlePlan
	EnemyPlan    *planning.BattlePlan

	CourierSystem *courier.System

	FriendlyVisibility *visibility.ArmyVisibility
	EnemyVisibility    *visibility.ArmyVisibility

	ActiveCombats []ActiveCombat
	RoutingUnits  []RoutingUnit

	BattleLog []BattleEvent

	// EnemyCommander decides the enemy side's orders at the end of each
	// tick and dispatches them through EnemyArmy's own courier pool, same
	// as the friendly side's player-issued orders.
	EnemyCommander AICommander

	RNG *rand.Rand
}

// New returns a fresh battle in the Planning phase.
func New(m *battlemap.Map, friendly, enemy *units.Army) *BattleState {
	return &BattleState{
		Map:                m,
		FriendlyArmy:       friendly,
		EnemyArmy:          enemy,
		Phase:              Planning,
		Outcome:            Undecided,
		FriendlyPlan:       planning.NewBattlePlan(),
		EnemyPlan:          planning.NewBattlePlan(),
		CourierSystem:      courier.NewSystem(),
		FriendlyVisibility: visibility.New(),
		EnemyVisibility:    visibility.New(),
		RNG:                rand.New(rand.NewPCG(42, 42)),
	}
}

// IsFinished reports whether the battle has concluded.
func (s *BattleState) IsFinished() bool {
	return s.Phase == Finished
}

// StartBattle transitions the battle from Planning to Active.
func (s *BattleState) StartBattle() {
	s.Phase = Active
	s.LogEvent(BattleEventType{Kind: EventBattleStarted}, "Battle has begun!")
}

// LogEvent appends an entry to the battle log, stamped with the current tick.
func (s *BattleState) LogEvent(eventType BattleEventType, description string) {
	s.BattleLog = append(s.BattleLog, BattleEvent{Tick: s.Tick, EventType: eventType, Description: description})
}

// EndBattle transitions the battle to Finished with the given outcome.
func (s *BattleState) EndBattle(outcome BattleOutcome) {
	s.Phase = Finished
	s.Outcome = outcome
	s.LogEvent(BattleEventType{Kind: EventBattleEnded, Outcome: outcome}, fmt.Sprintf("Battle ended: %s", outcome))
}

// GetUnit finds a unit by ID in either army.
func (s *BattleState) GetUnit(unitID ids.UnitID) *units.Unit {
	if u := s.FriendlyArmy.GetUnit(unitID); u != nil {
		return u
	}
	return s.EnemyArmy.GetUnit(unitID)
}

// CheckBattleEnd reports the outcome the battle should end with, if any.
func CheckBattleEnd(s *BattleState) *BattleOutcome {
	outcome := func(o BattleOutcome) *BattleOutcome { return &o }

	friendlyEffective := s.FriendlyArmy.EffectiveStrength()
	enemyEffective := s.EnemyArmy.EffectiveStrength()

	if enemyEffective == 0 {
		return outcome(DecisiveVictory)
	}
	if friendlyEffective == 0 {
		return outcome(DecisiveDefeat)
	}

	enemyRouting := s.EnemyArmy.PercentageRouting()
	friendlyRouting := s.FriendlyArmy.PercentageRouting()

	if enemyRouting > 0.8 && friendlyRouting > 0.8 {
		return outcome(MutualRout)
	}
	if enemyRouting > 0.8 {
		return outcome(Victory)
	}
	if friendlyRouting > 0.8 {
		return outcome(Defeat)
	}

	if s.Tick > constants.MaxBattleTicks {
		switch {
		case friendlyEffective > enemyEffective*2:
			return outcome(Victory)
		case enemyEffective > friendlyEffective*2:
			return outcome(Defeat)
		default:
			return outcome(Draw)
		}
	}

	return nil
}

// AdvanceTick runs one full pass of the 10-step tick pipeline: couriers
// advance, orders from arrived couriers apply, go-code and contingency
// triggers evaluate, unit movement advances, engagement detection and
// combat resolve, morale/stress/rout resolve, routing units retreat,
// visibility recomputes, the AI commander re-evaluates, and the battle-end
// condition is checked.
func (s *BattleState) AdvanceTick() {
	if s.IsFinished() {
		return
	}

	s.Tick++

	s.advanceCouriers()
	s.applyArrivedOrders()
	s.evaluateTriggers()
	s.advanceMovement()
	s.resolveEngagementsAndCombat()
	s.resolveMorale()
	s.advanceRoutingUnits()
	s.recomputeVisibility()

	if s.EnemyCommander != nil {
		s.EnemyCommander.Decide(s)
	}

	if outcome := CheckBattleEnd(s); outcome != nil {
		s.EndBattle(*outcome)
	}
}

func allUnits(army *units.Army) []*units.Unit {
	var out []*units.Unit
	for _, f := range army.Formations {
		out = append(out, f.Units...)
	}
	return out
}

func fightableUnits(army *units.Army) []*units.Unit {
	var out []*units.Unit
	for _, u := range allUnits(army) {
		if u.CanFight() {
			out = append(out, u)
		}
	}
	return out
}

func positionsOf(army *units.Army) []hex.Coord {
	var out []hex.Coord
	for _, u := range allUnits(army) {
		out = append(out, u.Position)
	}
	return out
}

func visibleEnemyPositions(v *visibility.ArmyVisibility, opponent *units.Army) []hex.Coord {
	var out []hex.Coord
	for _, u := range allUnits(opponent) {
		if v.IsVisible(u.Position) {
			out = append(out, u.Position)
		}
	}
	return out
}

// step 1: couriers advance toward their destination; a unit of the opposing
// army standing Alert or Patrol within interception range has a chance to
// catch one.
func (s *BattleState) advanceCouriers() {
	s.CourierSystem.AdvanceAll(constants.CourierSpeed)

	for _, c := range s.CourierSystem.InFlight {
		if !c.IsEnRoute() {
			continue
		}
		watchers := allUnits(s.EnemyArmy)
		if army, _ := s.ownerOf(c.Order.Target); army == s.EnemyArmy {
			watchers = allUnits(s.FriendlyArmy)
		}
		s.tryIntercept(c, watchers)
	}
}

func (s *BattleState) tryIntercept(c *courier.InFlight, watchers []*units.Unit) {
	for _, watcher := range watchers {
		if watcher.Stance != units.Alert && watcher.Stance != units.Patrol {
			continue
		}
		if watcher.Position.Distance(c.CurrentPosition) > constants.CourierInterceptionRange {
			continue
		}

		chance := constants.CourierInterceptionChancePatrol
		if watcher.Stance == units.Alert {
			chance = constants.CourierInterceptionChanceAlert
		}

		if s.RNG.Float32() < chance {
			c.Intercept()
			s.LogEvent(BattleEventType{Kind: EventCourierIntercepted}, "a courier was intercepted")
			return
		}
	}
}

// step 2: orders from couriers that arrived this tick are applied to
// whichever side's army and plan the order targets — both player orders and
// the enemy AI's now travel by courier, so CourierSystem carries both.
func (s *BattleState) applyArrivedOrders() {
	for _, order := range s.CourierSystem.CollectArrived() {
		if army, plan := s.ownerOf(order.Target); army != nil {
			orders.Apply(order, army, plan)
		}
	}
}

// ownerOf identifies which side's army and plan an order target belongs to.
func (s *BattleState) ownerOf(target courier.OrderTarget) (*units.Army, *planning.BattlePlan) {
	switch target.Kind {
	case courier.TargetUnit:
		if s.FriendlyArmy.GetUnit(target.Unit) != nil {
			return s.FriendlyArmy, s.FriendlyPlan
		}
		if s.EnemyArmy.GetUnit(target.Unit) != nil {
			return s.EnemyArmy, s.EnemyPlan
		}
	case courier.TargetFormation:
		for _, f := range s.FriendlyArmy.Formations {
			if f.ID == target.Formation {
				return s.FriendlyArmy, s.FriendlyPlan
			}
		}
		for _, f := range s.EnemyArmy.Formations {
			if f.ID == target.Formation {
				return s.EnemyArmy, s.EnemyPlan
			}
		}
	}
	return nil, nil
}

// step 3: go-code and contingency conditions evaluate for both sides.
func (s *BattleState) evaluateTriggers() {
	s.evaluateTriggersForSide(s.FriendlyArmy, s.FriendlyPlan, s.EnemyArmy, s.FriendlyVisibility)
	s.evaluateTriggersForSide(s.EnemyArmy, s.EnemyPlan, s.FriendlyArmy, s.EnemyVisibility)
}

func buildUnitPositions(army *units.Army) []triggers.UnitPosition {
	var out []triggers.UnitPosition
	for _, u := range allUnits(army) {
		out = append(out, triggers.UnitPosition{UnitID: u.ID, Position: u.Position, IsRouting: u.IsBroken()})
	}
	return out
}

// commanderAlive approximates the army commander's survival as its own
// formation not having been wiped out — there is no per-entity casualty
// tracking that could pinpoint a specific commander entity among the dead.
func commanderAlive(army *units.Army) bool {
	for _, f := range army.Formations {
		if f.Commander == army.Commander {
			return f.EffectiveStrength() > 0
		}
	}
	return true
}

func (s *BattleState) evaluateTriggersForSide(army *units.Army, plan *planning.BattlePlan, opponent *units.Army, ownVisibility *visibility.ArmyVisibility) {
	unitPositions := buildUnitPositions(army)
	enemyVisible := visibleEnemyPositions(ownVisibility, opponent)

	for _, id := range triggers.EvaluateAllGoCodes(plan, s.Tick, unitPositions, enemyVisible) {
		if gc := plan.GetGoCodeByID(id); gc != nil {
			gc.Triggered = true
			s.LogEvent(BattleEventType{Kind: EventGoCodeTriggered, Name: gc.Name}, fmt.Sprintf("go-code %q triggered", gc.Name))
		}
	}

	totalStrength := army.TotalStrength()
	var casualtiesPercent float32
	if totalStrength > 0 {
		casualtiesPercent = 1.0 - float32(army.EffectiveStrength())/float32(totalStrength)
	}

	enemyPositions := positionsOf(opponent)
	friendlyPositions := positionsOf(army)
	anyFlanked := anyUnitFlanked(army, enemyPositions)

	for _, idx := range triggers.EvaluateAllContingencies(plan, unitPositions, casualtiesPercent, commanderAlive(army), enemyPositions, friendlyPositions, anyFlanked) {
		c := &plan.Contingencies[idx]
		c.Activated = true
		s.LogEvent(BattleEventType{Kind: EventGoCodeTriggered}, triggers.DescribeContingencyResponse(c.Response))
		s.applyContingencyResponse(c.Response, army, plan)
	}
}

func anyUnitFlanked(army *units.Army, enemyPositions []hex.Coord) bool {
	for _, u := range allUnits(army) {
		if u.IsEngaged() && engagement.IsFlanked(u, enemyPositions) {
			return true
		}
	}
	return false
}

func (s *BattleState) applyContingencyResponse(response planning.ContingencyResponse, army *units.Army, plan *planning.BattlePlan) {
	switch response.Kind {
	case planning.RespRetreat:
		unitID := response.Unit
		wp := plan.GetWaypointPlan(unitID)
		if wp == nil {
			wp = planning.NewWaypointPlan(unitID)
			plan.WaypointPlans = append(plan.WaypointPlans, wp)
		}
		wp.Waypoints = nil
		wp.CurrentWaypoint = 0
		for i, pos := range response.Route {
			behavior := planning.MoveTo
			if i == len(response.Route)-1 {
				behavior = planning.RallyAt
			}
			wp.AddWaypoint(planning.NewWaypoint(pos, behavior).WithPace(planning.PaceRun))
		}

	case planning.RespRally:
		unitID := response.Unit
		wp := plan.GetWaypointPlan(unitID)
		if wp == nil {
			wp = planning.NewWaypointPlan(unitID)
			plan.WaypointPlans = append(plan.WaypointPlans, wp)
		}
		wp.Waypoints = nil
		wp.CurrentWaypoint = 0
		wp.AddWaypoint(planning.NewWaypoint(response.RallyPoint, planning.RallyAt).WithPace(planning.PaceRun))

	case planning.RespSignal:
		if gc := plan.GetGoCodeByID(response.GoCode); gc != nil {
			gc.Triggered = true
		}

	case planning.RespExecutePlan:
		// No standing backup-plan library exists to execute against; the
		// contingency is logged (DescribeContingencyResponse) but otherwise
		// left to the commander's next re-evaluation.
	}
}

// step 4: units not waiting on a condition advance one step along their
// waypoint plan.
func (s *BattleState) advanceMovement() {
	s.advanceMovementForSide(s.FriendlyArmy, s.FriendlyPlan, s.EnemyArmy, s.FriendlyVisibility)
	s.advanceMovementForSide(s.EnemyArmy, s.EnemyPlan, s.FriendlyArmy, s.EnemyVisibility)
}

func (s *BattleState) advanceMovementForSide(army *units.Army, plan *planning.BattlePlan, opponent *units.Army, ownVisibility *visibility.ArmyVisibility) {
	allyPositions := make([]movement.UnitPosition, 0, len(allUnits(army)))
	for _, u := range allUnits(army) {
		allyPositions = append(allyPositions, movement.UnitPosition{UnitID: u.ID, Position: u.Position})
	}
	enemyVisible := visibleEnemyPositions(ownVisibility, opponent)

	var engagedUnits []ids.UnitID
	for _, u := range allUnits(army) {
		if u.IsEngaged() {
			engagedUnits = append(engagedUnits, u.ID)
		}
	}

	for _, u := range allUnits(army) {
		if u.Stance == units.Routing {
			continue // step 7 handles retreat movement
		}

		wp := plan.GetWaypointPlan(u.ID)
		if wp == nil {
			continue
		}
		if movement.IsWaitingWithContext(wp, s.Tick, allyPositions, enemyVisible, engagedUnits) {
			continue
		}

		result := movement.AdvanceUnitMovement(s.Map, u, wp)
		u.Fatigue += result.FatigueDelta
		if u.Fatigue > 1.0 {
			u.Fatigue = 1.0
		}
	}
}

// step 5: adjacent friendly/enemy units detect each other and, if their
// engagement rules call for it, fight this tick's round of combat — melee
// (with a shock bonus for a unit that just arrived at a charge) for adjacent
// pairs, plus ranged fire for archers and crossbowmen with a clear shot at a
// target beyond melee range.
func (s *BattleState) resolveEngagementsAndCombat() {
	for _, potential := range engagement.FindAll(fightableUnits(s.FriendlyArmy), fightableUnits(s.EnemyArmy)) {
		attacker := s.FriendlyArmy.GetUnit(potential.AttackerID)
		defender := s.EnemyArmy.GetUnit(potential.DefenderID)
		if attacker == nil || defender == nil {
			continue
		}

		attackerRule := s.FriendlyPlan.GetEngagementRule(attacker.ID)
		defenderRule := s.EnemyPlan.GetEngagementRule(defender.ID)

		if !engagement.ShouldInitiateCombat(attackerRule, false) && !engagement.ShouldInitiateCombat(defenderRule, true) {
			continue
		}

		s.fight(attacker, defender, attackerRule)
	}

	s.resolveRangedFire(s.FriendlyArmy, s.FriendlyPlan, s.EnemyArmy)
	s.resolveRangedFire(s.EnemyArmy, s.EnemyPlan, s.FriendlyArmy)
}

func (s *BattleState) fight(attacker, defender *units.Unit, attackerRule planning.EngagementRule) {
	wasEngaged := attacker.IsEngaged()

	enemyPositions := positionsOf(s.EnemyArmy)
	friendlyPositions := positionsOf(s.FriendlyArmy)
	attackerSurrounded := engagement.IsSurrounded(attacker, enemyPositions)
	defenderSurrounded := engagement.IsSurrounded(defender, friendlyPositions)
	attackerFlanked := engagement.IsFlanked(attacker, enemyPositions)
	defenderFlanked := engagement.IsFlanked(defender, friendlyPositions)

	result := combat.ResolveUnitCombat(attacker, defender, 0.0)
	attackerStress := combat.CalculateStressDelta(result.AttackerCasualties, attackerFlanked, attackerSurrounded)
	defenderStress := combat.CalculateStressDelta(result.DefenderCasualties, defenderFlanked, defenderSurrounded)

	attacker.Casualties += result.AttackerCasualties
	defender.Casualties += result.DefenderCasualties
	morale.ApplyStress(attacker, attackerStress)
	morale.ApplyStress(defender, defenderStress)
	attacker.Fatigue = clampUnit(attacker.Fatigue + result.AttackerFatigueDelta)
	defender.Fatigue = clampUnit(defender.Fatigue + result.DefenderFatigueDelta)

	// A cavalry unit arriving at a charge pace delivers its shock on the
	// tick it makes contact, on top of the ordinary attrition round above.
	if !wasEngaged && attacker.UnitType.CanCharge() && s.attackerChargingInto(attacker) {
		shockType := weapons.CavalryCharge
		if defenderFlanked {
			shockType = weapons.RearCharge
		}

		shock := combat.ResolveShockAttack(attacker, defender, shockType)
		defender.Casualties += shock.ImmediateCasualties
		morale.ApplyStress(defender, shock.StressSpike)
		s.LogEvent(BattleEventType{Kind: EventUnitEngaged, UnitID: attacker.ID}, "cavalry charge struck home")
	}

	attacker.Stance = units.Engaged
	defender.Stance = units.Engaged

	lod := combat.DetermineLOD(attacker.EffectiveStrength()+defender.EffectiveStrength(), false, s.nearObjective(defender.Position))
	s.trackCombat(attacker.ID, defender.ID, lod)

	if !wasEngaged {
		s.LogEvent(BattleEventType{Kind: EventUnitEngaged, UnitID: attacker.ID}, "unit engaged in melee")
	}

	if attackerRule.ShouldWithdrawAfterEngagement() {
		s.withdraw(attacker, defender, s.FriendlyPlan)
	}
}

// attackerChargingInto reports whether attacker's current waypoint leg is
// being travelled at a charge pace — the moment a can-charge unit makes
// contact while still charging, its blow resolves as shock rather than
// ordinary attrition.
func (s *BattleState) attackerChargingInto(attacker *units.Unit) bool {
	wp := s.FriendlyPlan.GetWaypointPlan(attacker.ID)
	if wp == nil {
		return false
	}
	leg := wp.Current()
	return leg != nil && leg.Pace == planning.PaceCharge
}

// nearObjective reports whether pos is close enough to a map objective for
// the fight there to warrant finer-grained resolution.
func (s *BattleState) nearObjective(pos hex.Coord) bool {
	for _, o := range s.Map.Objectives {
		if pos.Distance(o.Coord) <= constants.ObjectiveProximityRange {
			return true
		}
	}
	return false
}

// resolveRangedFire lets every ranged-armed, unengaged, fight-willing unit
// in shooterArmy loose a volley at the nearest in-range target in
// targetArmy it has line of sight to — the alternative to melee resolution
// for attacker/defender pairs that are not adjacent.
func (s *BattleState) resolveRangedFire(shooterArmy *units.Army, shooterPlan *planning.BattlePlan, targetArmy *units.Army) {
	targets := fightableUnits(targetArmy)

	for _, shooter := range fightableUnits(shooterArmy) {
		if shooter.IsEngaged() {
			continue
		}

		weapon, ok := combat.UnitRangedWeapon(shooter.UnitType)
		if !ok {
			continue
		}

		rule := shooterPlan.GetEngagementRule(shooter.ID)
		if !engagement.ShouldInitiateCombat(rule, false) {
			continue
		}

		target, ok := nearestInRange(shooter, weapon.Range, targets)
		if !ok {
			continue
		}

		hasLOS := s.Map.HasLineOfSight(shooter.Position, target.Position)
		result := combat.ResolveUnitRangedAttack(s.RNG, shooter, target, hasLOS)

		target.Casualties += result.Casualties
		morale.ApplyStress(target, result.StressInflicted)
		shooter.Fatigue = clampUnit(shooter.Fatigue + result.FatigueCost)

		if result.Hit {
			s.LogEvent(BattleEventType{Kind: EventUnitEngaged, UnitID: shooter.ID}, "ranged volley found its mark")
		}
	}
}

// nearestInRange returns the closest candidate within weapon range r of
// shooter, or false if none qualifies.
func nearestInRange(shooter *units.Unit, r weapons.RangeCategory, candidates []*units.Unit) (*units.Unit, bool) {
	var best *units.Unit
	var bestDistance uint32

	for _, candidate := range candidates {
		if !combat.CanShoot(shooter.Position, candidate.Position, r) {
			continue
		}
		distance := shooter.Position.Distance(candidate.Position)
		if best == nil || distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}

	return best, best != nil
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (s *BattleState) trackCombat(attackerID, defenderID ids.UnitID, lod combat.LOD) {
	for i := range s.ActiveCombats {
		c := &s.ActiveCombats[i]
		if c.AttackerUnit == attackerID && c.DefenderUnit == defenderID {
			c.TicksEngaged++
			c.LOD = lod
			return
		}
	}
	s.ActiveCombats = append(s.ActiveCombats, ActiveCombat{AttackerUnit: attackerID, DefenderUnit: defenderID, TicksEngaged: 1, LOD: lod})
}

// withdraw clears a Skirmish unit's waypoints and sends it away from the
// unit it just traded blows with: a single RallyAt waypoint at run pace, as
// far beyond the unit's own hex as the enemy stands on the other side. No
// rally point is consulted.
func (s *BattleState) withdraw(unit, away *units.Unit, plan *planning.BattlePlan) {
	wp := plan.GetWaypointPlan(unit.ID)
	if wp == nil {
		wp = planning.NewWaypointPlan(unit.ID)
		plan.WaypointPlans = append(plan.WaypointPlans, wp)
	}
	wp.Waypoints = nil
	wp.CurrentWaypoint = 0

	offset := hex.Coord{Q: unit.Position.Q - away.Position.Q, R: unit.Position.R - away.Position.R}
	retreatTo := hex.New(unit.Position.Q+offset.Q, unit.Position.R+offset.R)
	wp.AddWaypoint(planning.NewWaypoint(retreatTo, planning.RallyAt).WithPace(planning.PaceRun))
}

// leaderNearby reports whether any ally of unit within rallySupportRange
// hexes carries a leader.
const rallySupportRange uint32 = 3

func leaderNearby(unit *units.Unit, army *units.Army) bool {
	for _, ally := range allUnits(army) {
		if ally.ID == unit.ID || ally.Leader == nil {
			continue
		}
		if ally.Position.Distance(unit.Position) <= rallySupportRange {
			return true
		}
	}
	return false
}

func enemyNearby(unit *units.Unit, enemyPositions []hex.Coord) bool {
	for _, p := range enemyPositions {
		if unit.Position.Distance(p) <= constants.CourierInterceptionRange {
			return true
		}
	}
	return false
}

// step 6: stress accumulates from contagion, units break past their
// threshold, and already-routing units attempt to rally or reform.
func (s *BattleState) resolveMorale() {
	s.resolveMoraleForSide(s.FriendlyArmy, s.EnemyArmy)
	s.resolveMoraleForSide(s.EnemyArmy, s.FriendlyArmy)
}

func (s *BattleState) resolveMoraleForSide(army, opponent *units.Army) {
	enemyPositions := positionsOf(opponent)

	for _, u := range allUnits(army) {
		switch u.Stance {
		case units.Routing:
			if !enemyNearby(u, enemyPositions) {
				result := morale.CheckRally(u, false, leaderNearby(u, army))
				if result.Rallies {
					morale.ApplyStress(u, result.StressDelta)
					morale.ProcessRally(u)
					tick := s.Tick
					u.RallyingSince = &tick
					s.removeRoutingUnit(u.ID)
					s.LogEvent(BattleEventType{Kind: EventUnitRallied, UnitID: u.ID}, "unit rallying")
				}
			}

		case units.Rallying:
			if u.RallyingSince != nil && s.Tick-*u.RallyingSince >= constants.RallyTicksRequired {
				u.Stance = units.Formed
				u.RallyingSince = nil
			}

		default:
			nearbyRouting := 0
			for _, ally := range allUnits(army) {
				if ally.ID != u.ID && ally.IsBroken() && ally.Position.Distance(u.Position) <= 1 {
					nearbyRouting++
				}
			}
			morale.ApplyStress(u, morale.CalculateContagionStress(u, nearbyRouting))

			if morale.CheckMoraleBreak(u).Breaks {
				morale.ProcessMoraleBreak(u)
				s.RoutingUnits = append(s.RoutingUnits, RoutingUnit{UnitID: u.ID})
				s.LogEvent(BattleEventType{Kind: EventUnitBroke, UnitID: u.ID}, "unit broke and is routing")
			}
		}
	}
}

func (s *BattleState) removeRoutingUnit(unitID ids.UnitID) {
	filtered := s.RoutingUnits[:0]
	for _, r := range s.RoutingUnits {
		if r.UnitID != unitID {
			filtered = append(filtered, r)
		}
	}
	s.RoutingUnits = filtered
}

// step 7: routing units flee, one hex per tick, away from the nearest
// visible enemy (or toward home if none is visible).
func (s *BattleState) advanceRoutingUnits() {
	for i := range s.RoutingUnits {
		r := &s.RoutingUnits[i]
		unit := s.GetUnit(r.UnitID)
		if unit == nil || unit.Stance != units.Routing {
			continue
		}

		vis := s.EnemyVisibility
		if s.FriendlyArmy.GetUnit(unit.ID) != nil {
			vis = s.FriendlyVisibility
		}

		retreatDirection := s.homeOf(unit)
		if nearest, ok := nearestEnemy(unit, visibleEnemyPositions(vis, s.opponentArmyOf(unit))); ok {
			offset := hex.Coord{Q: unit.Position.Q - nearest.Q, R: unit.Position.R - nearest.R}
			retreatDirection = hex.New(unit.Position.Q+offset.Q, unit.Position.R+offset.R)
		}

		if movement.MoveRoutingUnit(s.Map, unit, retreatDirection) {
			r.RetreatProgress++
		}
	}

	filtered := s.RoutingUnits[:0]
	for _, r := range s.RoutingUnits {
		if u := s.GetUnit(r.UnitID); u != nil && u.Stance == units.Routing {
			filtered = append(filtered, r)
		}
	}
	s.RoutingUnits = filtered
}

func (s *BattleState) homeOf(unit *units.Unit) hex.Coord {
	if s.FriendlyArmy.GetUnit(unit.ID) != nil {
		return s.FriendlyArmy.HQPosition
	}
	return s.EnemyArmy.HQPosition
}

func (s *BattleState) opponentArmyOf(unit *units.Unit) *units.Army {
	if s.FriendlyArmy.GetUnit(unit.ID) != nil {
		return s.EnemyArmy
	}
	return s.FriendlyArmy
}

func nearestEnemy(unit *units.Unit, positions []hex.Coord) (hex.Coord, bool) {
	var best hex.Coord
	found := false
	var bestDist uint32
	for _, p := range positions {
		d := unit.Position.Distance(p)
		if !found || d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}

// step 8: fog-of-war recomputes for both armies, folding the previous
// visible set into remembered.
func (s *BattleState) recomputeVisibility() {
	visibility.UpdateArmyVisibility(s.FriendlyVisibility, s.Map, s.FriendlyArmy)
	visibility.UpdateArmyVisibility(s.EnemyVisibility, s.Map, s.EnemyArmy)
}
