// Package planning holds the pre-battle plan structures: waypoints,
// engagement rules, go-codes and contingencies. Plan like Rainbow Six —
// waypoints, triggers, and contingencies.
package planning

import (
	"github.com/nstehr/vimy-core/formation"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/units"
)

// MovementPace is the pace a unit travels a waypoint leg at.
type MovementPace byte

const (
	PaceWalk MovementPace = iota
	PaceQuick
	PaceRun
	PaceCharge
)

// SpeedMultiplier is the movement speed multiplier for the pace.
func (p MovementPace) SpeedMultiplier() float32 {
	switch p {
	case PaceWalk:
		return 0.5
	case PaceQuick:
		return 1.0
	case PaceRun:
		return 1.5
	case PaceCharge:
		return 2.0
	default:
		return 1.0
	}
}

// FatigueMultiplier is the fatigue accumulation multiplier for the pace.
func (p MovementPace) FatigueMultiplier() float32 {
	switch p {
	case PaceWalk:
		return 0.5
	case PaceQuick:
		return 1.0
	case PaceRun:
		return 2.0
	case PaceCharge:
		return 4.0
	default:
		return 1.0
	}
}

// WaypointBehavior is what a unit does on reaching a waypoint.
type WaypointBehavior byte

const (
	MoveTo WaypointBehavior = iota
	HoldAt
	AttackFrom
	ScanFrom
	RallyAt
)

// WaitConditionKind discriminates the WaitCondition variant in play.
type WaitConditionKind byte

const (
	WaitDuration WaitConditionKind = iota
	WaitGoCode
	WaitUnitArrives
	WaitEnemySighted
	WaitAttacked
)

// WaitCondition is a condition a unit must satisfy before leaving a
// waypoint.
type WaitCondition struct {
	Kind     WaitConditionKind
	Ticks    uint64
	GoCodeID ids.GoCodeID
	UnitID   ids.UnitID
}

// Waypoint is one stop in a unit's movement plan.
type Waypoint struct {
	Position      hex.Coord
	Behavior      WaypointBehavior
	Pace          MovementPace
	WaitCondition *WaitCondition
}

// NewWaypoint returns a waypoint at the default (quick) pace with no wait
// condition.
func NewWaypoint(position hex.Coord, behavior WaypointBehavior) Waypoint {
	return Waypoint{Position: position, Behavior: behavior, Pace: PaceQuick}
}

// WithPace sets the waypoint's pace and returns it.
func (w Waypoint) WithPace(pace MovementPace) Waypoint {
	w.Pace = pace
	return w
}

// WithWait sets the waypoint's wait condition and returns it.
func (w Waypoint) WithWait(condition WaitCondition) Waypoint {
	w.WaitCondition = &condition
	return w
}

// WaypointPlan is the ordered sequence of waypoints a unit is following.
type WaypointPlan struct {
	UnitID         ids.UnitID
	Waypoints      []Waypoint
	CurrentWaypoint int
	WaitStartTick  *uint64
}

// NewWaypointPlan returns an empty plan for the given unit.
func NewWaypointPlan(unitID ids.UnitID) *WaypointPlan {
	return &WaypointPlan{UnitID: unitID}
}

// AddWaypoint appends a waypoint to the plan.
func (p *WaypointPlan) AddWaypoint(w Waypoint) {
	p.Waypoints = append(p.Waypoints, w)
}

// Current returns the active waypoint, or nil if the plan is empty.
func (p *WaypointPlan) Current() *Waypoint {
	if p.CurrentWaypoint < 0 || p.CurrentWaypoint >= len(p.Waypoints) {
		return nil
	}
	return &p.Waypoints[p.CurrentWaypoint]
}

// Advance moves to the next waypoint, reporting whether it did (false if
// already on the last one).
func (p *WaypointPlan) Advance() bool {
	last := len(p.Waypoints) - 1
	if last < 0 {
		last = 0
	}
	if p.CurrentWaypoint < last {
		p.CurrentWaypoint++
		return true
	}
	return false
}

// EngagementRule governs when a unit initiates or withdraws from combat.
type EngagementRule byte

const (
	Aggressive EngagementRule = iota
	Defensive
	HoldFire
	Skirmish
)

// ShouldAttackOnSight reports whether the rule attacks enemies on sight.
func (r EngagementRule) ShouldAttackOnSight() bool {
	return r == Aggressive
}

// ShouldWithdrawAfterEngagement reports whether the rule disengages after
// making contact.
func (r EngagementRule) ShouldWithdrawAfterEngagement() bool {
	return r == Skirmish
}

// GoCodeTriggerKind discriminates the GoCodeTrigger variant in play.
type GoCodeTriggerKind byte

const (
	TriggerManual GoCodeTriggerKind = iota
	TriggerTime
	TriggerUnitPosition
	TriggerEnemyInArea
)

// GoCodeTrigger is the condition that fires a go-code.
type GoCodeTrigger struct {
	Kind     GoCodeTriggerKind
	Tick     uint64
	Unit     ids.UnitID
	Position hex.Coord
	Area     []hex.Coord
}

// GoCode is a coordinated trigger several units subscribe to.
type GoCode struct {
	ID          ids.GoCodeID
	Name        string
	Trigger     GoCodeTrigger
	Subscribers []ids.UnitID
	Triggered   bool
}

// NewGoCode returns a fresh, untriggered go-code.
func NewGoCode(name string, trigger GoCodeTrigger) *GoCode {
	return &GoCode{ID: ids.NewGoCodeID(), Name: name, Trigger: trigger}
}

// Subscribe adds unitID to the go-code's subscriber list, if not already
// present.
func (g *GoCode) Subscribe(unitID ids.UnitID) {
	for _, existing := range g.Subscribers {
		if existing == unitID {
			return
		}
	}
	g.Subscribers = append(g.Subscribers, unitID)
}

// ContingencyTriggerKind discriminates the ContingencyTrigger variant in
// play.
type ContingencyTriggerKind byte

const (
	CondUnitBreaks ContingencyTriggerKind = iota
	CondCommanderDies
	CondPositionLost
	CondEnemyFlanking
	CondCasualtiesExceed
)

// ContingencyTrigger is the condition that activates a contingency.
type ContingencyTrigger struct {
	Kind       ContingencyTriggerKind
	Unit       ids.UnitID
	Position   hex.Coord
	Percentage float32
}

// ContingencyResponseKind discriminates the ContingencyResponse variant in
// play.
type ContingencyResponseKind byte

const (
	RespExecutePlan ContingencyResponseKind = iota
	RespRetreat
	RespRally
	RespSignal
)

// ContingencyResponse is the action a contingency takes once activated.
type ContingencyResponse struct {
	Kind       ContingencyResponseKind
	Unit       ids.UnitID
	Route      []hex.Coord
	RallyPoint hex.Coord
	GoCode     ids.GoCodeID
}

// Contingency is a pre-planned response to a battlefield condition.
type Contingency struct {
	Trigger   ContingencyTrigger
	Response  ContingencyResponse
	Priority  uint8
	Activated bool
}

// NewContingency returns an unactivated, zero-priority contingency.
func NewContingency(trigger ContingencyTrigger, response ContingencyResponse) Contingency {
	return Contingency{Trigger: trigger, Response: response}
}

// WithPriority sets the contingency's priority and returns it.
func (c Contingency) WithPriority(priority uint8) Contingency {
	c.Priority = priority
	return c
}

// UnitDeployment places a unit on the map at the start of a battle.
type UnitDeployment struct {
	UnitID        ids.UnitID
	Position      hex.Coord
	Facing        hex.Direction
	InitialStance units.Stance
}

// EngagementRuleAssignment pairs a unit with its engagement rule.
type EngagementRuleAssignment struct {
	UnitID ids.UnitID
	Rule   EngagementRule
}

// BattlePlan is the complete pre-battle plan: deployments, waypoint plans,
// engagement rules, go-codes, and contingencies.
type BattlePlan struct {
	Deployments     []UnitDeployment
	WaypointPlans   []*WaypointPlan
	EngagementRules []EngagementRuleAssignment
	GoCodes         []*GoCode
	Contingencies   []Contingency
	FormationLines  []*formation.Line
}

// NewBattlePlan returns an empty plan.
func NewBattlePlan() *BattlePlan {
	return &BattlePlan{}
}

// GetWaypointPlan returns the waypoint plan for unitID, or nil.
func (p *BattlePlan) GetWaypointPlan(unitID ids.UnitID) *WaypointPlan {
	for _, wp := range p.WaypointPlans {
		if wp.UnitID == unitID {
			return wp
		}
	}
	return nil
}

// GetEngagementRule returns the engagement rule for unitID, defaulting to
// Aggressive if none is assigned.
func (p *BattlePlan) GetEngagementRule(unitID ids.UnitID) EngagementRule {
	for _, a := range p.EngagementRules {
		if a.UnitID == unitID {
			return a.Rule
		}
	}
	return Aggressive
}

// GetGoCode returns the go-code with the given name, or nil.
func (p *BattlePlan) GetGoCode(name string) *GoCode {
	for _, g := range p.GoCodes {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// GetGoCodeByID returns the go-code with the given ID, or nil.
func (p *BattlePlan) GetGoCodeByID(id ids.GoCodeID) *GoCode {
	for _, g := range p.GoCodes {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// AddFormationLine records a newly drawn formation line on the plan.
func (p *BattlePlan) AddFormationLine(line *formation.Line) {
	p.FormationLines = append(p.FormationLines, line)
}

// GetFormationLine returns the formation line with the given ID, or nil.
func (p *BattlePlan) GetFormationLine(id ids.FormationLineID) *formation.Line {
	for _, l := range p.FormationLines {
		if l.ID == id {
			return l
		}
	}
	return nil
}
