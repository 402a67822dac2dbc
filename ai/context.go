// Package ai implements the deterministic battle commander: a fog-of-war
// filtered view of the battle (DecisionContext), a personality of weights
// and thresholds, a multi-phase plan manager, and the commander itself that
// turns all three into orders each evaluation cycle.
package ai

import (
	"math"

	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/units"
	"github.com/nstehr/vimy-core/visibility"
)

// DecisionContext is the AI's filtered view of the battle: its own army in
// full, the enemy army narrowed to what ownVisibility currently sees unless
// ignoresFog lets it cheat.
type DecisionContext struct {
	OwnArmy       *units.Army
	EnemyArmy     *units.Army
	OwnVisibility *visibility.ArmyVisibility
	CurrentTick   uint64
	ignoresFog    bool
}

// NewDecisionContext builds a decision context for one evaluation cycle.
func NewDecisionContext(ownArmy, enemyArmy *units.Army, ownVisibility *visibility.ArmyVisibility, currentTick uint64, ignoresFog bool) *DecisionContext {
	return &DecisionContext{
		OwnArmy:       ownArmy,
		EnemyArmy:     enemyArmy,
		OwnVisibility: ownVisibility,
		CurrentTick:   currentTick,
		ignoresFog:    ignoresFog,
	}
}

// OwnUnits returns every unit in the commander's own army.
func (c *DecisionContext) OwnUnits() []*units.Unit {
	var out []*units.Unit
	for _, f := range c.OwnArmy.Formations {
		out = append(out, f.Units...)
	}
	return out
}

// VisibleEnemyUnits returns enemy units currently visible (or every enemy
// unit, if the commander ignores fog of war).
func (c *DecisionContext) VisibleEnemyUnits() []*units.Unit {
	var out []*units.Unit
	for _, f := range c.EnemyArmy.Formations {
		for _, u := range f.Units {
			if c.ignoresFog || c.OwnVisibility.IsVisible(u.Position) {
				out = append(out, u)
			}
		}
	}
	return out
}

// GetOwnUnit finds a unit in the commander's own army by ID.
func (c *DecisionContext) GetOwnUnit(unitID ids.UnitID) *units.Unit {
	return c.OwnArmy.GetUnit(unitID)
}

// IsVisible reports whether pos is currently visible to the commander.
func (c *DecisionContext) IsVisible(pos hex.Coord) bool {
	return c.ignoresFog || c.OwnVisibility.IsVisible(pos)
}

// OwnEffectiveStrength is the commander's own army's effective headcount.
func (c *DecisionContext) OwnEffectiveStrength() int {
	return c.OwnArmy.EffectiveStrength()
}

// VisibleEnemyStrength sums the effective strength of every visible enemy unit.
func (c *DecisionContext) VisibleEnemyStrength() int {
	total := 0
	for _, u := range c.VisibleEnemyUnits() {
		total += u.EffectiveStrength()
	}
	return total
}

// StrengthRatio is own effective strength over visible enemy effective
// strength. With no visible enemy it returns math.MaxFloat32, not an error —
// an unopposed commander should read as overwhelmingly strong, not stuck.
func (c *DecisionContext) StrengthRatio() float32 {
	enemyStrength := c.VisibleEnemyStrength()
	if enemyStrength == 0 {
		return math.MaxFloat32
	}
	return float32(c.OwnEffectiveStrength()) / float32(enemyStrength)
}

// WeakestEnemy finds the visible enemy unit with the lowest effective strength.
func (c *DecisionContext) WeakestEnemy() (*units.Unit, bool) {
	var weakest *units.Unit
	for _, u := range c.VisibleEnemyUnits() {
		if weakest == nil || u.EffectiveStrength() < weakest.EffectiveStrength() {
			weakest = u
		}
	}
	return weakest, weakest != nil
}

// ClosestEnemyTo finds the visible enemy unit nearest to pos.
func (c *DecisionContext) ClosestEnemyTo(pos hex.Coord) (*units.Unit, bool) {
	var closest *units.Unit
	var bestDist uint32
	for _, u := range c.VisibleEnemyUnits() {
		d := u.Position.Distance(pos)
		if closest == nil || d < bestDist {
			closest, bestDist = u, d
		}
	}
	return closest, closest != nil
}

// RoutingOwnUnits returns every own unit currently routing.
func (c *DecisionContext) RoutingOwnUnits() []*units.Unit {
	var out []*units.Unit
	for _, u := range c.OwnUnits() {
		if u.IsBroken() {
			out = append(out, u)
		}
	}
	return out
}

// OwnCasualtyPercentage is the fraction of the commander's own total
// strength already lost to casualties.
func (c *DecisionContext) OwnCasualtyPercentage() float32 {
	total := c.OwnArmy.TotalStrength()
	if total == 0 {
		return 0.0
	}
	effective := c.OwnArmy.EffectiveStrength()
	return 1.0 - float32(effective)/float32(total)
}

// HQPosition is the commander's own rally point.
func (c *DecisionContext) HQPosition() hex.Coord {
	return c.OwnArmy.HQPosition
}

// EnemyHQPosition is known from pre-battle intel even under fog of war.
func (c *DecisionContext) EnemyHQPosition() hex.Coord {
	return c.EnemyArmy.HQPosition
}

// AvailableCouriers counts the entities in the commander's courier pool.
// Riders are reused round-robin, so the count does not drop as orders go out.
func (c *DecisionContext) AvailableCouriers() int {
	return len(c.OwnArmy.CourierPool)
}
