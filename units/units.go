// Package units implements the unit hierarchy: Element (5-10 combatants) →
// Unit (a cohesive fighting group) → Formation (units under a commander) →
// Army (formations in a battle).
package units

import (
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/unittype"
)

// Element is the smallest tactical grouping.
type Element struct {
	Entities []ids.EntityID
}

// NewElement wraps the given entities as an Element.
func NewElement(entities []ids.EntityID) Element {
	return Element{Entities: entities}
}

// Strength is the number of combatants in the element.
func (e Element) Strength() int {
	return len(e.Entities)
}

// Stance is a unit's current combat posture.
type Stance byte

const (
	Formed Stance = iota
	Moving
	Engaged
	Shaken
	Routing
	Rallying
	Patrol
	Alert
)

// FormationShape is the geometric arrangement a unit's elements hold.
type FormationShape struct {
	Kind       FormationKind
	Depth      uint8   // Line
	Width      uint8   // Column
	Angle      float32 // Wedge
	Dispersion float32 // Skirmish
}

// FormationKind discriminates the FormationShape variant in play.
type FormationKind byte

const (
	ShapeLine FormationKind = iota
	ShapeColumn
	ShapeWedge
	ShapeSquare
	ShapeSkirmish
)

// DefaultFormationShape is a 2-deep line, matching a freshly deployed unit.
func DefaultFormationShape() FormationShape {
	return FormationShape{Kind: ShapeLine, Depth: 2}
}

// Unit is a military unit: a collection of elements moving and fighting as one.
type Unit struct {
	ID       ids.UnitID
	Leader   *ids.EntityID
	Elements []Element
	UnitType unittype.Type

	Position hex.Coord
	Facing   hex.Direction

	Stance         Stance
	FormationShape FormationShape
	Cohesion       float32 // 0.0 (scattered) to 1.0 (tight)
	Fatigue        float32 // 0.0 (fresh) to 1.0 (exhausted)
	Stress         float32 // accumulated stress

	// RallyingSince is the tick the unit entered Rallying, cleared once it
	// reforms back to Formed.
	RallyingSince *uint64

	Casualties uint32
}

// NewUnit returns a freshly deployed unit of the given type at the origin.
func NewUnit(id ids.UnitID, unitType unittype.Type) *Unit {
	return &Unit{
		ID:             id,
		UnitType:       unitType,
		Stance:         Formed,
		FormationShape: DefaultFormationShape(),
		Cohesion:       1.0,
	}
}

// Strength is the unit's total headcount across all elements.
func (u *Unit) Strength() int {
	total := 0
	for _, e := range u.Elements {
		total += e.Strength()
	}
	return total
}

// EffectiveStrength is Strength minus casualties, floored at 0.
func (u *Unit) EffectiveStrength() int {
	eff := u.Strength() - int(u.Casualties)
	if eff < 0 {
		return 0
	}
	return eff
}

// IsBroken reports whether the unit is routing.
func (u *Unit) IsBroken() bool {
	return u.Stance == Routing
}

// CanFight reports whether the unit can take combat orders.
func (u *Unit) CanFight() bool {
	return u.Stance != Routing && u.Stance != Rallying && u.EffectiveStrength() > 0
}

// IsEngaged reports whether the unit is currently in melee.
func (u *Unit) IsEngaged() bool {
	return u.Stance == Engaged
}

// StressThreshold is the stress level at which the unit breaks and routs.
func (u *Unit) StressThreshold() float32 {
	threshold := u.UnitType.DefaultProperties().BaseStressThreshold

	if u.Cohesion > 0.8 {
		threshold += 0.1
	}
	threshold -= u.Fatigue * 0.2

	if threshold < 0.3 {
		return 0.3
	}
	return threshold
}

// Formation is a collection of units under a single commander.
type Formation struct {
	ID        ids.FormationID
	Commander ids.EntityID
	Units     []*Unit
	Name      string
}

// NewFormation returns an empty formation under the given commander.
func NewFormation(id ids.FormationID, commander ids.EntityID) *Formation {
	return &Formation{ID: id, Commander: commander}
}

// TotalStrength sums every unit's headcount.
func (f *Formation) TotalStrength() int {
	total := 0
	for _, u := range f.Units {
		total += u.Strength()
	}
	return total
}

// EffectiveStrength sums every unit's effective headcount.
func (f *Formation) EffectiveStrength() int {
	total := 0
	for _, u := range f.Units {
		total += u.EffectiveStrength()
	}
	return total
}

// PercentageRouting is the fraction of the formation's units that are broken.
func (f *Formation) PercentageRouting() float32 {
	if len(f.Units) == 0 {
		return 0.0
	}
	routing := 0
	for _, u := range f.Units {
		if u.IsBroken() {
			routing++
		}
	}
	return float32(routing) / float32(len(f.Units))
}

// IsBroken reports whether at least half the formation has routed.
func (f *Formation) IsBroken() bool {
	return f.PercentageRouting() >= 0.5
}

// CommanderPosition returns the formation's geometric center, or ok=false
// if it has no units.
func (f *Formation) CommanderPosition() (hex.Coord, bool) {
	if len(f.Units) == 0 {
		return hex.Coord{}, false
	}
	var sumQ, sumR int32
	for _, u := range f.Units {
		sumQ += u.Position.Q
		sumR += u.Position.R
	}
	count := int32(len(f.Units))
	return hex.New(sumQ/count, sumR/count), true
}

// Army is a collection of formations fighting one side of a battle.
type Army struct {
	ID           ids.ArmyID
	Commander    ids.EntityID
	Formations   []*Formation
	HQPosition   hex.Coord
	CourierPool  []ids.EntityID
}

// NewArmy returns an empty army under the given commander.
func NewArmy(id ids.ArmyID, commander ids.EntityID) *Army {
	return &Army{ID: id, Commander: commander}
}

// TotalStrength sums every formation's headcount.
func (a *Army) TotalStrength() int {
	total := 0
	for _, f := range a.Formations {
		total += f.TotalStrength()
	}
	return total
}

// EffectiveStrength sums every formation's effective headcount.
func (a *Army) EffectiveStrength() int {
	total := 0
	for _, f := range a.Formations {
		total += f.EffectiveStrength()
	}
	return total
}

// PercentageRouting is the fraction of ALL units across the army that are
// broken — not an average of each formation's own percentage.
func (a *Army) PercentageRouting() float32 {
	totalUnits := 0
	routingUnits := 0
	for _, f := range a.Formations {
		totalUnits += len(f.Units)
		for _, u := range f.Units {
			if u.IsBroken() {
				routingUnits++
			}
		}
	}
	if totalUnits == 0 {
		return 0.0
	}
	return float32(routingUnits) / float32(totalUnits)
}

// GetUnit finds a unit by ID across all formations.
func (a *Army) GetUnit(unitID ids.UnitID) *Unit {
	for _, f := range a.Formations {
		for _, u := range f.Units {
			if u.ID == unitID {
				return u
			}
		}
	}
	return nil
}
