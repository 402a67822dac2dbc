// Package battlemap holds the dense hex grid of a tactical battle: terrain,
// elevation, features, occupants, fog-of-war visibility state, and the line
// of sight walk used throughout targeting and visibility calculations.
package battlemap

import (
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/terrain"
)

// Visibility is the fog-of-war state of a single hex, independent of any
// one army's remembered/observed sets (those live in the visibility package;
// this is the map's own per-hex default bookkeeping).
type Visibility byte

const (
	Unknown Visibility = iota
	Remembered
	Observed
)

// Hex is a single tile of the battle map.
type Hex struct {
	Coord      hex.Coord
	Terrain    terrain.Terrain
	Elevation  int8
	Features   []terrain.Feature
	Occupants  []ids.EntityID
	Visibility Visibility
}

// NewHex returns an open, unoccupied hex at coord with the given terrain.
func NewHex(coord hex.Coord, t terrain.Terrain) Hex {
	return Hex{Coord: coord, Terrain: t, Visibility: Unknown}
}

// TotalMovementCost is the terrain's base cost plus every feature's modifier.
func (h Hex) TotalMovementCost() float32 {
	cost := h.Terrain.MovementCost()
	for _, f := range h.Features {
		cost += f.MovementCostModifier()
	}
	return cost
}

// TotalCover is the terrain's base cover plus every feature's defense bonus,
// capped at 1.0.
func (h Hex) TotalCover() float32 {
	cover := h.Terrain.CoverValue()
	for _, f := range h.Features {
		cover += f.DefenseBonus()
	}
	if cover > 1.0 {
		return 1.0
	}
	return cover
}

// BlocksLOS reports whether this hex's terrain or any feature on it blocks
// line of sight.
func (h Hex) BlocksLOS() bool {
	if h.Terrain.BlocksLOS() {
		return true
	}
	for _, f := range h.Features {
		if f.BlocksLOS() {
			return true
		}
	}
	return false
}

// HasFeature reports whether feature f is already present on the hex.
func (h Hex) HasFeature(f terrain.Feature) bool {
	for _, existing := range h.Features {
		if existing == f {
			return true
		}
	}
	return false
}

// Objective is a named, optionally victory-gating point on the map.
type Objective struct {
	Coord             hex.Coord
	Name              string
	RequiredForVictory bool
}

// Map is the full tactical battlefield: a dense hex grid plus deployment
// zones and objectives.
type Map struct {
	Hexes               map[hex.Coord]*Hex
	Width               uint32
	Height              uint32
	FriendlyDeployment  []hex.Coord
	EnemyDeployment     []hex.Coord
	Objectives          []Objective
}

// New builds a width x height map of entirely Open terrain.
func New(width, height uint32) *Map {
	hexes := make(map[hex.Coord]*Hex, width*height)
	for q := int32(0); q < int32(width); q++ {
		for r := int32(0); r < int32(height); r++ {
			c := hex.New(q, r)
			h := NewHex(c, terrain.Open)
			hexes[c] = &h
		}
	}
	return &Map{Hexes: hexes, Width: width, Height: height}
}

// GetHex returns the hex at coord, or nil if it doesn't exist.
func (m *Map) GetHex(coord hex.Coord) *Hex {
	return m.Hexes[coord]
}

// InBounds reports whether coord falls within the map's rectangle.
func (m *Map) InBounds(coord hex.Coord) bool {
	return coord.Q >= 0 && coord.R >= 0 &&
		coord.Q < int32(m.Width) && coord.R < int32(m.Height)
}

// HasLineOfSight reports whether to is visible from from, walking every hex
// strictly between the two endpoints and failing if any of them blocks LOS.
func (m *Map) HasLineOfSight(from, to hex.Coord) bool {
	line := from.LineTo(to)
	if len(line) <= 2 {
		return true
	}
	for _, coord := range line[1 : len(line)-1] {
		if h := m.GetHex(coord); h != nil && h.BlocksLOS() {
			return false
		}
	}
	return true
}

// SetTerrain overwrites the terrain at coord, if the hex exists.
func (m *Map) SetTerrain(coord hex.Coord, t terrain.Terrain) {
	if h := m.GetHex(coord); h != nil {
		h.Terrain = t
	}
}

// SetElevation overwrites the elevation at coord, if the hex exists.
func (m *Map) SetElevation(coord hex.Coord, elevation int8) {
	if h := m.GetHex(coord); h != nil {
		h.Elevation = elevation
	}
}

// AddFeature adds feature to the hex at coord, if not already present.
func (m *Map) AddFeature(coord hex.Coord, feature terrain.Feature) {
	h := m.GetHex(coord)
	if h == nil || h.HasFeature(feature) {
		return
	}
	h.Features = append(h.Features, feature)
}

// ElevationDifference returns from's elevation minus to's (positive means
// from is higher). Missing hexes are treated as elevation 0.
func (m *Map) ElevationDifference(from, to hex.Coord) int8 {
	var fromElev, toElev int8
	if h := m.GetHex(from); h != nil {
		fromElev = h.Elevation
	}
	if h := m.GetHex(to); h != nil {
		toElev = h.Elevation
	}
	return fromElev - toElev
}

// VisibleHexes returns every in-bounds hex within range of from that has an
// unobstructed line of sight to it.
func (m *Map) VisibleHexes(from hex.Coord, rng uint32) []hex.Coord {
	candidates := from.HexesInRange(rng)
	visible := make([]hex.Coord, 0, len(candidates))
	for _, c := range candidates {
		if m.InBounds(c) && m.HasLineOfSight(from, c) {
			visible = append(visible, c)
		}
	}
	return visible
}
