// Package constants collects every tunable value used across the battle
// simulation in one place. All values are additive, never multiplicative —
// no percentage modifiers.
package constants

// Battle map scale.
const (
	BattleHexSizeMeters  float32 = 20.0
	DefaultBattleWidth   uint32  = 50
	DefaultBattleHeight  uint32  = 40
)

// Time.
const (
	BattleTickMS          uint32  = 100
	BattleTickSimSeconds  float32 = 1.0
	MaxBattleTicks        uint64  = 6000 // 10 minutes
)

// Movement, in hexes per tick (1 tick = 1 second, 1 hex = 20 meters).
// Real-world reference: infantry march ~5 km/h (1.4 m/s), cavalry trot ~14 km/h (3.9 m/s).
const (
	InfantryWalkSpeed  float32 = 0.07  // ~5 km/h marching pace
	InfantryRunSpeed   float32 = 0.14  // ~10 km/h jogging
	CavalryWalkSpeed   float32 = 0.085 // ~6 km/h
	CavalryTrotSpeed   float32 = 0.20  // ~14 km/h
	CavalryChargeSpeed float32 = 0.50  // ~36 km/h (canter/gallop burst)
	CourierSpeed       float32 = 0.40  // ~29 km/h (sustained fast pace)
	RoutSpeed          float32 = 0.18  // Panicked running, faster than march
)

// Vision, in hexes.
const (
	BaseVisionRange      uint32 = 8
	ScoutVisionBonus     uint32 = 4
	ElevationVisionBonus uint32 = 2
	ForestVisionPenalty  uint32 = 4
)

// Combat rates, per tick.
const (
	BaseCasualtyRate     float32 = 0.02
	FatigueRateCombat    float32 = 0.02
	FatigueRateMarch     float32 = 0.005
	FatigueRecoveryRate  float32 = 0.01
)

// Stress thresholds.
const (
	ContagionStress    float32 = 0.10
	OfficerDeathStress float32 = 0.30
	FlankStress        float32 = 0.20
)

// RallyTicksRequired is the number of ticks a unit must spend Rallying
// before it reforms back to Formed.
const RallyTicksRequired uint64 = 30

// Courier interception.
const (
	CourierInterceptionRange           uint32  = 2
	CourierInterceptionChancePatrol    float32 = 0.5
	CourierInterceptionChanceAlert     float32 = 0.7
)

// ObjectiveProximityRange is how close a fight has to be to a map objective,
// in hexes, to be resolved at a finer level of detail.
const ObjectiveProximityRange uint32 = 5
