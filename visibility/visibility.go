// Package visibility computes per-army fog of war: which hexes an army can
// currently see, and which it remembers having seen before.
package visibility

import (
	"github.com/nstehr/vimy-core/battlemap"
	"github.com/nstehr/vimy-core/constants"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/unittype"
	"github.com/nstehr/vimy-core/units"
)

// ArmyVisibility is the visibility state for one army: hexes it can see
// right now, and hexes it has seen before but can't currently see.
type ArmyVisibility struct {
	Visible    map[hex.Coord]struct{}
	Remembered map[hex.Coord]struct{}
}

// New returns an empty ArmyVisibility.
func New() *ArmyVisibility {
	return &ArmyVisibility{
		Visible:    make(map[hex.Coord]struct{}),
		Remembered: make(map[hex.Coord]struct{}),
	}
}

// IsVisible reports whether coord is currently visible.
func (v *ArmyVisibility) IsVisible(coord hex.Coord) bool {
	_, ok := v.Visible[coord]
	return ok
}

// IsRemembered reports whether coord has been seen before.
func (v *ArmyVisibility) IsRemembered(coord hex.Coord) bool {
	_, ok := v.Remembered[coord]
	return ok
}

// Update moves the current visible set into remembered, then installs
// newVisible as the current visible set, pruning anything now visible back
// out of remembered.
func (v *ArmyVisibility) Update(newVisible map[hex.Coord]struct{}) {
	for coord := range v.Visible {
		v.Remembered[coord] = struct{}{}
	}
	v.Visible = newVisible
	for coord := range v.Visible {
		delete(v.Remembered, coord)
	}
}

// UnitVisionRange computes how far a unit can see, given its type and the
// elevation of the hex it stands on.
func UnitVisionRange(u *units.Unit, m *battlemap.Map) uint32 {
	rng := constants.BaseVisionRange

	if u.UnitType == unittype.LightCavalry {
		rng += constants.ScoutVisionBonus
	}

	if h := m.GetHex(u.Position); h != nil && h.Elevation > 0 {
		rng += constants.ElevationVisionBonus * uint32(h.Elevation)
	}

	return rng
}

// CalculateArmyVisibility computes the set of hexes currently visible to an
// army, the union of every effective (non-wiped-out) unit's vision.
func CalculateArmyVisibility(m *battlemap.Map, army *units.Army) *ArmyVisibility {
	visible := make(map[hex.Coord]struct{})

	for _, formation := range army.Formations {
		for _, u := range formation.Units {
			if u.EffectiveStrength() == 0 {
				continue
			}

			rng := UnitVisionRange(u, m)
			for _, c := range m.VisibleHexes(u.Position, rng) {
				visible[c] = struct{}{}
			}
		}
	}

	v := New()
	v.Visible = visible
	return v
}

// UpdateArmyVisibility recalculates the army's visibility and folds it into
// the existing visibility state, moving stale hexes into remembered.
func UpdateArmyVisibility(visibility *ArmyVisibility, m *battlemap.Map, army *units.Army) {
	newVisible := CalculateArmyVisibility(m, army).Visible
	visibility.Update(newVisible)
}
