package battle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nstehr/vimy-core/courier"
	"github.com/nstehr/vimy-core/execution"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/ipc"
	"github.com/nstehr/vimy-core/planning"
	"github.com/nstehr/vimy-core/units"
)

func parseUnitID(raw string) (ids.UnitID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return ids.UnitID{}, fmt.Errorf("parse unit id %q: %w", raw, err)
	}
	return ids.UnitID(u), nil
}

func parseFormationID(raw string) (ids.FormationID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return ids.FormationID{}, fmt.Errorf("parse formation id %q: %w", raw, err)
	}
	return ids.FormationID(u), nil
}

func parseRoute(route []ipc.Coord) []hex.Coord {
	if route == nil {
		return nil
	}
	out := make([]hex.Coord, len(route))
	for i, c := range route {
		out[i] = parseCoord(c)
	}
	return out
}

var formationShapes = map[string]units.FormationKind{
	ipc.ShapeLine:     units.ShapeLine,
	ipc.ShapeColumn:   units.ShapeColumn,
	ipc.ShapeWedge:    units.ShapeWedge,
	ipc.ShapeSquare:   units.ShapeSquare,
	ipc.ShapeSkirmish: units.ShapeSkirmish,
}

var engagementRules = map[string]planning.EngagementRule{
	ipc.RuleAggressive: planning.Aggressive,
	ipc.RuleDefensive:  planning.Defensive,
	ipc.RuleHoldFire:   planning.HoldFire,
	ipc.RuleSkirmish:   planning.Skirmish,
}

// parseOrder converts a wire OrderMessage into a courier.Order, resolving
// its target (a single unit or every unit in a formation).
func parseOrder(msg ipc.OrderMessage) (courier.Order, error) {
	target, err := parseOrderTarget(msg)
	if err != nil {
		return courier.Order{}, err
	}

	orderType, err := parseOrderType(msg)
	if err != nil {
		return courier.Order{}, err
	}

	return courier.Order{OrderType: orderType, Target: target}, nil
}

func parseOrderTarget(msg ipc.OrderMessage) (courier.OrderTarget, error) {
	switch {
	case msg.FormationID != "":
		formationID, err := parseFormationID(msg.FormationID)
		if err != nil {
			return courier.OrderTarget{}, err
		}
		return courier.OrderTarget{Kind: courier.TargetFormation, Formation: formationID}, nil
	case msg.UnitID != "":
		unitID, err := parseUnitID(msg.UnitID)
		if err != nil {
			return courier.OrderTarget{}, err
		}
		return courier.OrderTarget{Kind: courier.TargetUnit, Unit: unitID}, nil
	default:
		return courier.OrderTarget{}, fmt.Errorf("order has neither unitId nor formationId")
	}
}

func parseOrderType(msg ipc.OrderMessage) (courier.OrderType, error) {
	switch msg.Kind {
	case ipc.OrderKindMoveTo:
		if msg.Destination == nil {
			return courier.OrderType{}, fmt.Errorf("move_to requires a destination")
		}
		return courier.OrderType{Kind: courier.OrderMoveTo, Destination: parseCoord(*msg.Destination)}, nil

	case ipc.OrderKindAttack:
		targetUnit, err := parseUnitID(msg.TargetUnit)
		if err != nil {
			return courier.OrderType{}, fmt.Errorf("attack: %w", err)
		}
		return courier.OrderType{Kind: courier.OrderAttack, TargetUnit: targetUnit}, nil

	case ipc.OrderKindDefend:
		if msg.Destination == nil {
			return courier.OrderType{}, fmt.Errorf("defend requires a destination")
		}
		return courier.OrderType{Kind: courier.OrderDefend, Destination: parseCoord(*msg.Destination)}, nil

	case ipc.OrderKindRetreat:
		return courier.OrderType{Kind: courier.OrderRetreat, Route: parseRoute(msg.Route)}, nil

	case ipc.OrderKindChangeFormation:
		shape, ok := formationShapes[msg.Shape]
		if !ok {
			return courier.OrderType{}, fmt.Errorf("unknown formation shape %q", msg.Shape)
		}
		return courier.OrderType{Kind: courier.OrderChangeFormation, Shape: units.FormationShape{
			Kind:       shape,
			Depth:      msg.Depth,
			Width:      msg.Width,
			Angle:      msg.Angle,
			Dispersion: msg.Dispersion,
		}}, nil

	case ipc.OrderKindChangeEngagement:
		rule, ok := engagementRules[msg.Rule]
		if !ok {
			return courier.OrderType{}, fmt.Errorf("unknown engagement rule %q", msg.Rule)
		}
		return courier.OrderType{Kind: courier.OrderChangeEngagement, Rule: rule}, nil

	case ipc.OrderKindExecuteGoCode:
		goCodeID, err := parseGoCodeID(msg.GoCode)
		if err != nil {
			return courier.OrderType{}, fmt.Errorf("execute_go_code: %w", err)
		}
		return courier.OrderType{Kind: courier.OrderExecuteGoCode, GoCode: goCodeID}, nil

	case ipc.OrderKindRally:
		return courier.OrderType{Kind: courier.OrderRally}, nil

	case ipc.OrderKindHoldPosition:
		return courier.OrderType{Kind: courier.OrderHoldPosition}, nil

	case ipc.OrderKindFormLine:
		if msg.LineStart == nil || msg.LineEnd == nil {
			return courier.OrderType{}, fmt.Errorf("form_line requires lineStart and lineEnd")
		}
		return courier.OrderType{
			Kind:       courier.OrderFormLine,
			LineStart:  parseCoord(*msg.LineStart),
			LineEnd:    parseCoord(*msg.LineEnd),
			LineFacing: hex.Direction(msg.LineFacing),
			LineDepth:  msg.LineDepth,
		}, nil

	case ipc.OrderKindMoveToFormationSlot:
		lineID, err := parseFormationLineID(msg.FormationLine)
		if err != nil {
			return courier.OrderType{}, fmt.Errorf("move_to_formation_slot: %w", err)
		}
		return courier.OrderType{Kind: courier.OrderMoveToFormationSlot, FormationLine: lineID}, nil

	default:
		return courier.OrderType{}, fmt.Errorf("unknown order kind %q", msg.Kind)
	}
}

func parseGoCodeID(raw string) (ids.GoCodeID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return ids.GoCodeID{}, fmt.Errorf("parse go-code id %q: %w", raw, err)
	}
	return ids.GoCodeID(u), nil
}

func parseFormationLineID(raw string) (ids.FormationLineID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return ids.FormationLineID{}, fmt.Errorf("parse formation-line id %q: %w", raw, err)
	}
	return ids.FormationLineID(u), nil
}

// dispatch hands order to the next rider in army's courier pool, riding from
// army's headquarters to the order's destination (the target unit's current
// position, a target formation's commander position, or the army's own HQ
// when the target cannot be located).
func dispatch(state *execution.BattleState, army *units.Army, order courier.Order, cursor *int) error {
	destination := courier.ResolveDestination(army, order)
	courierEntity := courier.NextCourier(army, cursor)
	state.CourierSystem.Dispatch(courierEntity, order, army.HQPosition, destination)
	return nil
}
