// Package combat resolves melee attrition, shock attacks, and ranged fire.
// Resolution compares categorical weapon/armor properties directly against
// a lookup table — no percentage modifiers, no damage numbers.
package combat

import (
	"math"
	"math/rand/v2"

	"github.com/nstehr/vimy-core/constants"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/unittype"
	"github.com/nstehr/vimy-core/units"
	"github.com/nstehr/vimy-core/weapons"
)

// LOD is the level of detail a combat is resolved at.
type LOD byte

const (
	LODIndividual LOD = iota
	LODElement
	LODUnit
	LODFormation
)

// UnitResult is the outcome of one tick of unit-level melee combat.
type UnitResult struct {
	AttackerCasualties  uint32
	DefenderCasualties  uint32
	AttackerStressDelta float32
	DefenderStressDelta float32
	AttackerFatigueDelta float32
	DefenderFatigueDelta float32
	PressureShift        float32
}

// ShockResult is the outcome of a shock attack (charge, flank, ambush).
type ShockResult struct {
	ImmediateCasualties uint32
	StressSpike         float32
	TriggeredBreakCheck bool
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CalculateCasualtyRate returns the per-tick, per-combatant casualty rate for
// weapon striking armor, modified additively by pressure.
func CalculateCasualtyRate(weapon weapons.WeaponProperties, armor weapons.ArmorProperties, pressure float32) float32 {
	var baseRate float32

	switch weapon.Edge {
	case weapons.Razor:
		switch armor.Rigidity {
		case weapons.Cloth:
			baseRate = 0.06
		case weapons.Leather:
			baseRate = 0.04
		case weapons.Mail:
			baseRate = 0.01
		case weapons.Plate:
			baseRate = 0.003
		}
	case weapons.Sharp:
		switch armor.Rigidity {
		case weapons.Cloth:
			baseRate = 0.05
		case weapons.Leather:
			baseRate = 0.03
		case weapons.Mail:
			baseRate = 0.01
		case weapons.Plate:
			baseRate = 0.005
		}
	case weapons.Blunt:
		switch weapon.Mass {
		case weapons.Massive:
			switch armor.Padding {
			case weapons.NoPadding:
				baseRate = 0.08
			case weapons.LightPadding:
				baseRate = 0.05
			case weapons.HeavyPadding:
				baseRate = 0.03
			}
		case weapons.Heavy:
			switch armor.Padding {
			case weapons.NoPadding:
				baseRate = 0.04
			case weapons.LightPadding:
				baseRate = 0.02
			case weapons.HeavyPadding:
				baseRate = 0.01
			}
		case weapons.Medium:
			switch armor.Padding {
			case weapons.NoPadding:
				baseRate = 0.02
			case weapons.LightPadding:
				baseRate = 0.01
			case weapons.HeavyPadding:
				baseRate = 0.005
			}
		case weapons.Light:
			baseRate = 0.005
		}
	}

	pressureModifier := pressure * 0.02

	return clamp(baseRate+pressureModifier, 0.001, 0.15)
}

// CalculateStressDelta returns the stress a unit accumulates from taking
// casualties casualties this tick, with additional stress if flanked or
// surrounded.
func CalculateStressDelta(casualties uint32, isFlanked, isSurrounded bool) float32 {
	stress := float32(0.01)

	stress += float32(casualties) * 0.02

	if isFlanked {
		stress += constants.FlankStress
	}

	if isSurrounded {
		stress += 0.10
	}

	return stress
}

// ResolveUnitCombat resolves one tick of melee attrition between attacker
// and defender under the given pressure (positive favors the attacker).
func ResolveUnitCombat(attacker, defender *units.Unit, pressure float32) UnitResult {
	attackerProps := attacker.UnitType.DefaultProperties()
	defenderProps := defender.UnitType.DefaultProperties()

	defenderCasualtyRate := CalculateCasualtyRate(attackerProps.AvgWeapon, defenderProps.AvgArmor, pressure)
	attackerCasualtyRate := CalculateCasualtyRate(defenderProps.AvgWeapon, attackerProps.AvgArmor, -pressure)

	defenderCasualties := uint32(math.Ceil(float64(defenderCasualtyRate) * float64(defender.EffectiveStrength())))
	attackerCasualties := uint32(math.Ceil(float64(attackerCasualtyRate) * float64(attacker.EffectiveStrength())))

	attackerStress := CalculateStressDelta(attackerCasualties, false, false)
	defenderStress := CalculateStressDelta(defenderCasualties, false, false)

	fatigueRate := constants.FatigueRateCombat

	var pressureShift float32
	switch {
	case defenderCasualties > attackerCasualties:
		pressureShift = 0.05
	case attackerCasualties > defenderCasualties:
		pressureShift = -0.05
	}

	return UnitResult{
		AttackerCasualties:   attackerCasualties,
		DefenderCasualties:   defenderCasualties,
		AttackerStressDelta:  attackerStress,
		DefenderStressDelta:  defenderStress,
		AttackerFatigueDelta: fatigueRate,
		DefenderFatigueDelta: fatigueRate,
		PressureShift:        pressureShift,
	}
}

func calculateShockCasualties(defender *units.Unit, shockType weapons.ShockType) uint32 {
	frontRankSize := uint32(float32(defender.EffectiveStrength()) * 0.2)

	defenderProps := defender.UnitType.DefaultProperties()

	var survivalRate float32
	switch defenderProps.AvgArmor.Padding {
	case weapons.NoPadding:
		survivalRate = 0.3
	case weapons.LightPadding:
		survivalRate = 0.5
	case weapons.HeavyPadding:
		survivalRate = 0.7
	}

	casualties := uint32(float32(frontRankSize) * (1.0 - survivalRate))

	if defender.UnitType == unittype.Spearmen {
		casualties /= 2
	}

	switch shockType {
	case weapons.CavalryCharge:
	case weapons.FlankAttack:
		casualties = casualties * 2 / 3
	case weapons.RearCharge:
		casualties = casualties * 3 / 2
	case weapons.Ambush:
		casualties = casualties * 5 / 4
	}

	return casualties
}

// ResolveShockAttack resolves a shock attack (charge, flank, ambush) against
// defender, possibly triggering an immediate break check.
func ResolveShockAttack(attacker, defender *units.Unit, shockType weapons.ShockType) ShockResult {
	casualties := calculateShockCasualties(defender, shockType)

	stressSpike := shockType.StressSpike() + (float32(casualties)/float32(defender.EffectiveStrength()))*0.20

	defenderThreshold := defender.StressThreshold()
	triggeredBreakCheck := defender.Stress+stressSpike > defenderThreshold*0.7

	return ShockResult{
		ImmediateCasualties: casualties,
		StressSpike:         stressSpike,
		TriggeredBreakCheck: triggeredBreakCheck,
	}
}

// DetermineLOD picks the level of detail a combat should resolve at.
func DetermineLOD(totalCombatants int, isPlayerFocused, isNearObjective bool) LOD {
	switch {
	case isPlayerFocused:
		return LODIndividual
	case isNearObjective || totalCombatants < 50:
		return LODElement
	case totalCombatants < 200:
		return LODUnit
	default:
		return LODFormation
	}
}

// MaxRangeHexes is the longest distance a range category can effectively
// strike.
func MaxRangeHexes(r weapons.RangeCategory) uint32 {
	switch r {
	case weapons.RangeClose:
		return 5
	case weapons.RangeMedium:
		return 12
	case weapons.RangeLong:
		return 20
	default:
		return 0
	}
}

// MinRangeHexes is the shortest distance a range category can effectively
// strike — ranged weapons can't fire point-blank.
func MinRangeHexes(r weapons.RangeCategory) uint32 {
	switch r {
	case weapons.RangeClose:
		return 2
	case weapons.RangeMedium:
		return 3
	case weapons.RangeLong:
		return 5
	default:
		return 0
	}
}

// CanShoot reports whether shooter can hit target at the given range
// category.
func CanShoot(shooter, target hex.Coord, r weapons.RangeCategory) bool {
	distance := shooter.Distance(target)
	return distance >= MinRangeHexes(r) && distance <= MaxRangeHexes(r)
}

// RangedResult is the outcome of one ranged attack.
type RangedResult struct {
	Hit             bool
	Casualties      uint32
	StressInflicted float32
	FatigueCost     float32
	AmmoConsumed    uint32
}

// defaultRangedResult is a miss that still consumed ammo, the Rust source's
// Default impl.
func defaultRangedResult() RangedResult {
	return RangedResult{AmmoConsumed: 1}
}

// UnitRangedWeapon returns the ranged weapon a unit type fights with, if any.
func UnitRangedWeapon(unitType unittype.Type) (weapons.RangedWeaponProperties, bool) {
	switch unitType {
	case unittype.Archers:
		return weapons.Shortbow(), true
	case unittype.Crossbowmen:
		return weapons.LightCrossbow(), true
	case unittype.HorseArchers:
		return weapons.Shortbow(), true
	default:
		return weapons.RangedWeaponProperties{}, false
	}
}

// ResolveUnitRangedAttack resolves a ranged attack from attacker against
// defender, given line-of-sight. It does not mutate either unit — the
// caller applies the result. rng drives the hit roll.
func ResolveUnitRangedAttack(rng *rand.Rand, attacker, defender *units.Unit, hasLOS bool) RangedResult {
	result := defaultRangedResult()

	weapon, ok := UnitRangedWeapon(attacker.UnitType)
	if !ok {
		result.AmmoConsumed = 0
		return result
	}

	if !CanShoot(attacker.Position, defender.Position, weapon.Range) {
		result.AmmoConsumed = 0
		return result
	}

	baseHitChance := float32(0.4)

	distance := attacker.Position.Distance(defender.Position)
	maxRange := MaxRangeHexes(weapon.Range)
	distancePenalty := (float32(distance) / float32(maxRange)) * 0.3

	coverBonus := float32(0.0)

	losPenalty := float32(0.0)
	if !hasLOS {
		losPenalty = 0.5
	}

	hitChance := baseHitChance - distancePenalty - coverBonus - losPenalty
	if hitChance < 0.05 {
		hitChance = 0.05
	}

	var roll float32
	if rng != nil {
		roll = rng.Float32()
	} else {
		roll = rand.Float32()
	}
	result.Hit = roll < hitChance

	if result.Hit {
		effectiveStrength := attacker.EffectiveStrength()
		baseCasualties := uint32(math.Ceil(float64(effectiveStrength) * 0.02))
		if baseCasualties < 1 {
			baseCasualties = 1
		}
		result.Casualties = baseCasualties
	}

	if result.Hit {
		result.StressInflicted = 0.03
	} else {
		result.StressInflicted = 0.01
	}

	switch weapon.DrawStrength {
	case weapons.Light:
		result.FatigueCost = 0.01
	case weapons.Medium:
		result.FatigueCost = 0.02
	case weapons.Heavy:
		result.FatigueCost = 0.03
	case weapons.Massive:
		result.FatigueCost = 0.05
	}

	return result
}
