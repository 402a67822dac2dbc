// Package courier models order delivery: orders are not instant, couriers
// carry commands across the battlefield and can be intercepted or lost.
package courier

import (
	"math"

	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/planning"
	"github.com/nstehr/vimy-core/units"
)

// OrderTypeKind discriminates the OrderType variant in play.
type OrderTypeKind byte

const (
	OrderMoveTo OrderTypeKind = iota
	OrderAttack
	OrderDefend
	OrderRetreat
	OrderChangeFormation
	OrderChangeEngagement
	OrderExecuteGoCode
	OrderRally
	OrderHoldPosition
	OrderFormLine
	OrderMoveToFormationSlot
)

// OrderType carries every possible order payload. Kind selects which
// fields are meaningful.
type OrderType struct {
	Kind OrderTypeKind

	Destination     hex.Coord        // MoveTo, Defend
	TargetUnit      ids.UnitID       // Attack
	Route           []hex.Coord      // Retreat
	Shape           units.FormationShape // ChangeFormation
	Rule            planning.EngagementRule // ChangeEngagement
	GoCode          ids.GoCodeID     // ExecuteGoCode

	LineStart  hex.Coord     // FormLine
	LineEnd    hex.Coord     // FormLine
	LineFacing hex.Direction // FormLine
	LineDepth  uint8         // FormLine

	FormationLine ids.FormationLineID // MoveToFormationSlot
}

// OrderTargetKind discriminates the OrderTarget variant in play.
type OrderTargetKind byte

const (
	TargetUnit OrderTargetKind = iota
	TargetFormation
)

// OrderTarget identifies what an order is addressed to.
type OrderTarget struct {
	Kind      OrderTargetKind
	Unit      ids.UnitID
	Formation ids.FormationID
}

// Order is a single command to be delivered.
type Order struct {
	OrderType OrderType
	Target    OrderTarget
	IssuedAt  uint64
}

// NewOrder builds an order addressed to target, issued at tick.
func NewOrder(orderType OrderType, target OrderTarget, tick uint64) Order {
	return Order{OrderType: orderType, Target: target, IssuedAt: tick}
}

// MoveTo builds a move order for unitID.
func MoveTo(unitID ids.UnitID, destination hex.Coord) Order {
	return Order{
		OrderType: OrderType{Kind: OrderMoveTo, Destination: destination},
		Target:    OrderTarget{Kind: TargetUnit, Unit: unitID},
	}
}

// Retreat builds a retreat order for unitID along route.
func Retreat(unitID ids.UnitID, route []hex.Coord) Order {
	return Order{
		OrderType: OrderType{Kind: OrderRetreat, Route: route},
		Target:    OrderTarget{Kind: TargetUnit, Unit: unitID},
	}
}

// Attack builds an attack order for unitID against target.
func Attack(unitID, target ids.UnitID) Order {
	return Order{
		OrderType: OrderType{Kind: OrderAttack, TargetUnit: target},
		Target:    OrderTarget{Kind: TargetUnit, Unit: unitID},
	}
}

// Hold builds a hold-position order for unitID.
func Hold(unitID ids.UnitID) Order {
	return Order{
		OrderType: OrderType{Kind: OrderHoldPosition},
		Target:    OrderTarget{Kind: TargetUnit, Unit: unitID},
	}
}

// Status is a courier's current state in flight.
type Status byte

const (
	EnRoute Status = iota
	Arrived
	Intercepted
	Lost
)

// InFlight is a courier carrying an order between two points on the map.
type InFlight struct {
	ID             ids.CourierID
	CourierEntity  ids.EntityID
	Order          Order

	Source          hex.Coord
	Destination     hex.Coord
	CurrentPosition hex.Coord

	Progress float32 // progress to next hex, 0.0 to 1.0
	Path     []hex.Coord

	Status Status
}

// New starts a courier carrying order on the straight-line path from
// source to destination.
func New(courierEntity ids.EntityID, order Order, source, destination hex.Coord) *InFlight {
	return &InFlight{
		ID:              ids.NewCourierID(),
		CourierEntity:   courierEntity,
		Order:           order,
		Source:          source,
		Destination:     destination,
		CurrentPosition: source,
		Path:            source.LineTo(destination),
		Status:          EnRoute,
	}
}

// HasArrived reports whether the courier reached its destination.
func (c *InFlight) HasArrived() bool {
	return c.Status == Arrived
}

// IsEnRoute reports whether the courier is still travelling.
func (c *InFlight) IsEnRoute() bool {
	return c.Status == EnRoute
}

// WasIntercepted reports whether the courier was caught by the enemy.
func (c *InFlight) WasIntercepted() bool {
	return c.Status == Intercepted
}

// Advance moves the courier along its path by speed hexes of progress.
func (c *InFlight) Advance(speed float32) {
	if !c.IsEnRoute() {
		return
	}

	c.Progress += speed

	for c.Progress >= 1.0 && len(c.Path) > 0 {
		c.CurrentPosition = c.Path[0]
		c.Path = c.Path[1:]
		c.Progress -= 1.0
	}

	if len(c.Path) == 0 && c.CurrentPosition == c.Destination {
		c.Status = Arrived
	}
}

// Intercept marks the courier as caught by the enemy.
func (c *InFlight) Intercept() {
	c.Status = Intercepted
}

// Lose marks the courier as killed.
func (c *InFlight) Lose() {
	c.Status = Lost
}

// EstimateETA estimates the remaining ticks to delivery at the given speed.
func (c *InFlight) EstimateETA(speed float32) uint32 {
	if !c.IsEnRoute() {
		return 0
	}
	remainingHexes := float32(len(c.Path)) + (1.0 - c.Progress)
	return uint32(math.Ceil(float64(remainingHexes / speed)))
}

// System tracks every courier currently in flight and every order already
// delivered.
type System struct {
	InFlight  []*InFlight
	Delivered []Order
}

// NewSystem returns an empty courier system.
func NewSystem() *System {
	return &System{}
}

// Dispatch starts a new courier carrying order and returns its ID.
func (s *System) Dispatch(courierEntity ids.EntityID, order Order, source, destination hex.Coord) ids.CourierID {
	c := New(courierEntity, order, source, destination)
	s.InFlight = append(s.InFlight, c)
	return c.ID
}

// AdvanceAll advances every in-flight courier by speed hexes of progress.
func (s *System) AdvanceAll(speed float32) {
	for _, c := range s.InFlight {
		c.Advance(speed)
	}
}

// CollectArrived removes every arrived courier from the in-flight list,
// returning their orders and recording them as delivered.
func (s *System) CollectArrived() []Order {
	var arrived []Order
	remaining := s.InFlight[:0]
	for _, c := range s.InFlight {
		if c.HasArrived() {
			arrived = append(arrived, c.Order)
		} else {
			remaining = append(remaining, c)
		}
	}
	s.InFlight = remaining
	s.Delivered = append(s.Delivered, arrived...)
	return arrived
}

// GetCourier finds an in-flight courier by ID.
func (s *System) GetCourier(id ids.CourierID) *InFlight {
	for _, c := range s.InFlight {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CountEnRoute counts couriers still travelling.
func (s *System) CountEnRoute() int {
	count := 0
	for _, c := range s.InFlight {
		if c.IsEnRoute() {
			count++
		}
	}
	return count
}

// NextCourier returns the next entity in army's courier pool, round-robin,
// so repeated dispatches don't all pile onto the same rider.
func NextCourier(army *units.Army, cursor *int) ids.EntityID {
	entity := army.CourierPool[*cursor%len(army.CourierPool)]
	*cursor++
	return entity
}

// ResolveDestination finds the hex an order should be delivered to: the
// target unit's current position, a target formation's commander position,
// or army's own headquarters as a fallback.
func ResolveDestination(army *units.Army, order Order) hex.Coord {
	switch order.Target.Kind {
	case TargetUnit:
		if u := army.GetUnit(order.Target.Unit); u != nil {
			return u.Position
		}
	case TargetFormation:
		for _, f := range army.Formations {
			if f.ID == order.Target.Formation {
				if pos, ok := f.CommanderPosition(); ok {
					return pos
				}
				break
			}
		}
	}
	return army.HQPosition
}
