// Package morale tracks stress accumulation and the break/rally cycle.
// Stress climbs with combat, contagion, and officer death; once it exceeds
// a unit's threshold it routs, and can rally back to Formed once safe.
package morale

import (
	"github.com/nstehr/vimy-core/constants"
	"github.com/nstehr/vimy-core/units"
)

// CheckResult is the outcome of a morale check.
type CheckResult struct {
	Breaks      bool
	Rallies     bool
	StressDelta float32
}

// CheckMoraleBreak reports whether unit breaks under its current stress.
// Already-routing units can't break again.
func CheckMoraleBreak(unit *units.Unit) CheckResult {
	var result CheckResult

	if unit.Stance == units.Routing {
		return result
	}

	threshold := unit.StressThreshold()
	if unit.Stress >= threshold {
		result.Breaks = true
	}

	return result
}

// CheckRally reports whether a routing unit can rally, given whether it is
// near an enemy or near a friendly leader.
func CheckRally(unit *units.Unit, isNearEnemy, isNearLeader bool) CheckResult {
	var result CheckResult

	if unit.Stance != units.Routing {
		return result
	}

	if isNearEnemy {
		return result
	}

	const rallyThreshold = 0.5
	stressAfterRecovery := unit.Stress - 0.1

	if stressAfterRecovery < rallyThreshold {
		result.Rallies = true
		result.StressDelta = -0.1
	}

	if isNearLeader && stressAfterRecovery < rallyThreshold+0.2 {
		result.Rallies = true
		result.StressDelta = -0.15
	}

	return result
}

// CalculateContagionStress returns the stress unit picks up from nearby
// routing units. Already-routing units are immune to contagion.
func CalculateContagionStress(unit *units.Unit, nearbyRoutingCount int) float32 {
	if unit.Stance == units.Routing {
		return 0.0
	}

	return float32(nearbyRoutingCount) * constants.ContagionStress
}

// CalculateOfficerDeathStress returns the stress spike from a unit's leader
// dying.
func CalculateOfficerDeathStress(hadLeader, leaderDied bool) float32 {
	if hadLeader && leaderDied {
		return constants.OfficerDeathStress
	}
	return 0.0
}

// ApplyStress adjusts unit's stress by delta, clamped to [0.0, 2.0].
func ApplyStress(unit *units.Unit, delta float32) {
	unit.Stress += delta
	if unit.Stress < 0.0 {
		unit.Stress = 0.0
	}
	if unit.Stress > 2.0 {
		unit.Stress = 2.0
	}
}

// ProcessMoraleBreak transitions unit to Routing, shattering its cohesion.
func ProcessMoraleBreak(unit *units.Unit) {
	unit.Stance = units.Routing
	cohesion := unit.Cohesion * 0.5
	if cohesion < 0.1 {
		cohesion = 0.1
	}
	unit.Cohesion = cohesion
}

// ProcessRally transitions unit to Rallying; the execution pipeline advances
// it to Formed after RallyTicksRequired ticks.
func ProcessRally(unit *units.Unit) {
	unit.Stance = units.Rallying
}
