// Package orders translates courier-delivered orders into waypoint plan
// modifications and unit state changes.
package orders

import (
	"fmt"

	"github.com/nstehr/vimy-core/courier"
	"github.com/nstehr/vimy-core/formation"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/planning"
	"github.com/nstehr/vimy-core/units"
)

// ApplyResult is the outcome of applying an order.
type ApplyResult struct {
	Success       bool
	AffectedUnits []ids.UnitID
	Message       string
}

// Apply applies order to its target (a single unit or every unit in a
// formation) within army, updating plan's waypoints and engagement rules.
func Apply(order courier.Order, army *units.Army, plan *planning.BattlePlan) ApplyResult {
	if order.OrderType.Kind == courier.OrderFormLine {
		return applyFormLine(order, army, plan)
	}

	switch order.Target.Kind {
	case courier.TargetUnit:
		return applyToUnit(order, order.Target.Unit, army, plan)
	case courier.TargetFormation:
		var formation *units.Formation
		for _, f := range army.Formations {
			if f.ID == order.Target.Formation {
				formation = f
				break
			}
		}

		var affected []ids.UnitID
		if formation != nil {
			for _, u := range formation.Units {
				result := applyToUnit(order, u.ID, army, plan)
				if result.Success {
					affected = append(affected, result.AffectedUnits...)
				}
			}
		}

		return ApplyResult{
			Success:       len(affected) > 0,
			AffectedUnits: affected,
			Message:       fmt.Sprintf("order applied to formation %v", order.Target.Formation),
		}
	default:
		return ApplyResult{}
	}
}

// applyFormLine draws a formation line across the order's target (a whole
// formation, or a single unit treated as a one-unit line), assigns every
// target unit a slot along it, and sends each unit marching there.
func applyFormLine(order courier.Order, army *units.Army, plan *planning.BattlePlan) ApplyResult {
	var unitIDs []ids.UnitID
	var formationID ids.FormationID

	switch order.Target.Kind {
	case courier.TargetFormation:
		for _, f := range army.Formations {
			if f.ID == order.Target.Formation {
				formationID = f.ID
				for _, u := range f.Units {
					unitIDs = append(unitIDs, u.ID)
				}
				break
			}
		}
	case courier.TargetUnit:
		unitIDs = []ids.UnitID{order.Target.Unit}
	}

	if len(unitIDs) == 0 {
		return ApplyResult{}
	}

	ot := order.OrderType
	line := formation.NewLine(formationID, ot.LineStart, ot.LineEnd, ot.LineFacing).WithDepth(ot.LineDepth)
	line.AssignUnits(unitIDs)
	plan.AddFormationLine(line)

	var affected []ids.UnitID
	for _, unitID := range unitIDs {
		pos, ok := line.GetTargetPosition(unitID)
		if !ok {
			continue
		}

		wp := getOrCreateWaypointPlan(plan, unitID)
		wp.Waypoints = nil
		wp.CurrentWaypoint = 0
		wp.WaitStartTick = nil
		wp.AddWaypoint(planning.NewWaypoint(pos, planning.MoveTo).WithPace(planning.PaceQuick))

		if u := army.GetUnit(unitID); u != nil {
			u.Stance = units.Moving
			u.Facing = ot.LineFacing
		}

		affected = append(affected, unitID)
	}

	return ApplyResult{
		Success:       len(affected) > 0,
		AffectedUnits: affected,
		Message:       fmt.Sprintf("formation line %v drawn, %d units assigned", line.ID, len(affected)),
	}
}

func applyToUnit(order courier.Order, unitID ids.UnitID, army *units.Army, plan *planning.BattlePlan) ApplyResult {
	switch order.OrderType.Kind {
	case courier.OrderMoveTo:
		destination := order.OrderType.Destination
		wp := getOrCreateWaypointPlan(plan, unitID)
		wp.Waypoints = nil
		wp.CurrentWaypoint = 0
		wp.WaitStartTick = nil
		wp.AddWaypoint(planning.NewWaypoint(destination, planning.MoveTo).WithPace(planning.PaceQuick))

		if u := army.GetUnit(unitID); u != nil {
			u.Stance = units.Moving
		}

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: fmt.Sprintf("MoveTo %v", destination)}

	case courier.OrderAttack:
		targetID := order.OrderType.TargetUnit
		var pos hex.Coord
		if target := army.GetUnit(targetID); target != nil {
			pos = target.Position
		}
		wp := getOrCreateWaypointPlan(plan, unitID)
		wp.Waypoints = nil
		wp.CurrentWaypoint = 0
		wp.WaitStartTick = nil
		wp.AddWaypoint(planning.NewWaypoint(pos, planning.AttackFrom).WithPace(planning.PaceRun))

		setEngagementRule(plan, unitID, planning.Aggressive)

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: fmt.Sprintf("Attack %v", targetID)}

	case courier.OrderDefend:
		position := order.OrderType.Destination
		wp := getOrCreateWaypointPlan(plan, unitID)
		wp.Waypoints = nil
		wp.CurrentWaypoint = 0
		wp.WaitStartTick = nil
		wp.AddWaypoint(planning.NewWaypoint(position, planning.HoldAt).WithPace(planning.PaceQuick))

		setEngagementRule(plan, unitID, planning.Defensive)

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: fmt.Sprintf("Defend %v", position)}

	case courier.OrderRetreat:
		route := order.OrderType.Route
		wp := getOrCreateWaypointPlan(plan, unitID)
		wp.Waypoints = nil
		wp.CurrentWaypoint = 0
		wp.WaitStartTick = nil

		for i, pos := range route {
			behavior := planning.MoveTo
			if i == len(route)-1 {
				behavior = planning.RallyAt
			}
			wp.AddWaypoint(planning.NewWaypoint(pos, behavior).WithPace(planning.PaceRun))
		}

		setEngagementRule(plan, unitID, planning.HoldFire)

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: "retreat ordered"}

	case courier.OrderChangeFormation:
		shape := order.OrderType.Shape
		if u := army.GetUnit(unitID); u != nil {
			u.FormationShape = shape
		}

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: fmt.Sprintf("formation changed to %v", shape.Kind)}

	case courier.OrderChangeEngagement:
		rule := order.OrderType.Rule
		setEngagementRule(plan, unitID, rule)

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: fmt.Sprintf("engagement rule changed to %v", rule)}

	case courier.OrderExecuteGoCode:
		goCodeID := order.OrderType.GoCode
		if gc := plan.GetGoCodeByID(goCodeID); gc != nil {
			gc.Triggered = true
		}

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: fmt.Sprintf("go-code %v executed", goCodeID)}

	case courier.OrderRally:
		if u := army.GetUnit(unitID); u != nil && u.IsBroken() {
			u.Stance = units.Rallying
			u.Stress -= 0.2
			if u.Stress < 0.0 {
				u.Stress = 0.0
			}
		}

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: "rally ordered"}

	case courier.OrderHoldPosition:
		var currentPos *hex.Coord
		if u := army.GetUnit(unitID); u != nil {
			pos := u.Position
			currentPos = &pos
		}

		wp := getOrCreateWaypointPlan(plan, unitID)
		wp.Waypoints = nil
		wp.CurrentWaypoint = 0
		wp.WaitStartTick = nil

		if currentPos != nil {
			wp.AddWaypoint(planning.NewWaypoint(*currentPos, planning.HoldAt))
		}

		if u := army.GetUnit(unitID); u != nil {
			u.Stance = units.Formed
		}

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: "holding position"}

	case courier.OrderMoveToFormationSlot:
		line := plan.GetFormationLine(order.OrderType.FormationLine)
		if line == nil {
			return ApplyResult{}
		}
		pos, ok := line.GetTargetPosition(unitID)
		if !ok {
			return ApplyResult{}
		}

		wp := getOrCreateWaypointPlan(plan, unitID)
		wp.Waypoints = nil
		wp.CurrentWaypoint = 0
		wp.WaitStartTick = nil
		wp.AddWaypoint(planning.NewWaypoint(pos, planning.MoveTo).WithPace(planning.PaceQuick))

		if u := army.GetUnit(unitID); u != nil {
			u.Stance = units.Moving
			u.Facing = line.Facing
		}

		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}, Message: fmt.Sprintf("moving to slot on formation line %v", line.ID)}

	default:
		return ApplyResult{Success: true, AffectedUnits: []ids.UnitID{unitID}}
	}
}

func getOrCreateWaypointPlan(plan *planning.BattlePlan, unitID ids.UnitID) *planning.WaypointPlan {
	if existing := plan.GetWaypointPlan(unitID); existing != nil {
		return existing
	}
	wp := planning.NewWaypointPlan(unitID)
	plan.WaypointPlans = append(plan.WaypointPlans, wp)
	return wp
}

func setEngagementRule(plan *planning.BattlePlan, unitID ids.UnitID, rule planning.EngagementRule) {
	filtered := plan.EngagementRules[:0]
	for _, a := range plan.EngagementRules {
		if a.UnitID != unitID {
			filtered = append(filtered, a)
		}
	}
	plan.EngagementRules = append(filtered, planning.EngagementRuleAssignment{UnitID: unitID, Rule: rule})
}
