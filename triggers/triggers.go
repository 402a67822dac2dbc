// Package triggers evaluates go-code and contingency conditions against
// battlefield state. Plain conditions (time, unit position, unit-breaks,
// casualties) are ordinary Go comparisons; the two conditions that depend
// on full battlefield visibility — enemy-in-area and enemy-flanking — are
// compiled once as expr programs and run against a small evaluation
// environment: compile once up front, evaluate cheaply every tick.
package triggers

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/planning"
)

// UnitPosition is a unit's position snapshot for trigger evaluation.
type UnitPosition struct {
	UnitID    ids.UnitID
	Position  hex.Coord
	IsRouting bool
}

// areaEnv is the expr environment for EnemyInArea go-code triggers.
type areaEnv struct {
	Area              []hex.Coord
	EnemyVisibleHexes []hex.Coord
}

// flankEnv is the expr environment for EnemyFlanking contingency triggers.
// AnyUnitFlanked is computed by the caller (engagement.IsFlanked against
// real unit facings) — the expr program just gates on it, the same way a
// doctrine rule gates on a precomputed env method.
type flankEnv struct {
	AnyUnitFlanked bool
}

const (
	enemyInAreaSrc   = `any(Area, {# in EnemyVisibleHexes})`
	enemyFlankingSrc = `AnyUnitFlanked`
)

var (
	enemyInAreaProgram   = mustCompile(enemyInAreaSrc, areaEnv{})
	enemyFlankingProgram = mustCompile(enemyFlankingSrc, flankEnv{})
)

func mustCompile(src string, env any) *vm.Program {
	program, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		panic(fmt.Sprintf("triggers: compile %q: %v", src, err))
	}
	return program
}

func runBool(program *vm.Program, env any) bool {
	result, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	matched, _ := result.(bool)
	return matched
}

// EvaluateGoCodeTrigger reports whether goCode's trigger condition is met.
// An already-triggered go-code never fires again. enemyVisibleHexes feeds
// the EnemyInArea condition; pass nil where no visibility data is available.
func EvaluateGoCodeTrigger(goCode *planning.GoCode, currentTick uint64, unitPositions []UnitPosition, enemyVisibleHexes []hex.Coord) bool {
	if goCode.Triggered {
		return false
	}

	switch goCode.Trigger.Kind {
	case planning.TriggerManual:
		return false // player must manually trigger

	case planning.TriggerTime:
		return currentTick >= goCode.Trigger.Tick

	case planning.TriggerUnitPosition:
		for _, up := range unitPositions {
			if up.UnitID == goCode.Trigger.Unit && up.Position == goCode.Trigger.Position {
				return true
			}
		}
		return false

	case planning.TriggerEnemyInArea:
		return runBool(enemyInAreaProgram, areaEnv{
			Area:              goCode.Trigger.Area,
			EnemyVisibleHexes: enemyVisibleHexes,
		})

	default:
		return false
	}
}

// EvaluateAllGoCodes returns the IDs of every go-code in plan whose trigger
// condition currently holds.
func EvaluateAllGoCodes(plan *planning.BattlePlan, currentTick uint64, unitPositions []UnitPosition, enemyVisibleHexes []hex.Coord) []ids.GoCodeID {
	var triggered []ids.GoCodeID
	for _, gc := range plan.GoCodes {
		if EvaluateGoCodeTrigger(gc, currentTick, unitPositions, enemyVisibleHexes) {
			triggered = append(triggered, gc.ID)
		}
	}
	return triggered
}

// EvaluateContingencyTrigger reports whether contingency's trigger condition
// is met. An already-activated contingency never fires again. anyUnitFlanked
// should come from a real flanking check (engagement.IsFlanked) over the
// units the contingency cares about; pass false where no such check was run.
func EvaluateContingencyTrigger(
	contingency planning.Contingency,
	unitPositions []UnitPosition,
	casualtiesPercent float32,
	commanderAlive bool,
	enemyPositions, friendlyPositions []hex.Coord,
	anyUnitFlanked bool,
) bool {
	if contingency.Activated {
		return false
	}

	switch contingency.Trigger.Kind {
	case planning.CondUnitBreaks:
		for _, up := range unitPositions {
			if up.UnitID == contingency.Trigger.Unit && up.IsRouting {
				return true
			}
		}
		return false

	case planning.CondCommanderDies:
		return !commanderAlive

	case planning.CondPositionLost:
		return containsCoord(enemyPositions, contingency.Trigger.Position) &&
			!containsCoord(friendlyPositions, contingency.Trigger.Position)

	case planning.CondEnemyFlanking:
		return runBool(enemyFlankingProgram, flankEnv{AnyUnitFlanked: anyUnitFlanked})

	case planning.CondCasualtiesExceed:
		return casualtiesPercent > contingency.Trigger.Percentage

	default:
		return false
	}
}

func containsCoord(coords []hex.Coord, target hex.Coord) bool {
	for _, c := range coords {
		if c == target {
			return true
		}
	}
	return false
}

// EvaluateAllContingencies returns the indices into plan.Contingencies of
// every contingency whose trigger condition currently holds. Contingencies
// have no independent ID — callers index plan.Contingencies directly.
func EvaluateAllContingencies(
	plan *planning.BattlePlan,
	unitPositions []UnitPosition,
	casualtiesPercent float32,
	commanderAlive bool,
	enemyPositions, friendlyPositions []hex.Coord,
	anyUnitFlanked bool,
) []int {
	var triggered []int
	for i, c := range plan.Contingencies {
		if EvaluateContingencyTrigger(c, unitPositions, casualtiesPercent, commanderAlive, enemyPositions, friendlyPositions, anyUnitFlanked) {
			triggered = append(triggered, i)
		}
	}
	return triggered
}

// DescribeContingencyResponse renders a human-readable description of a
// contingency's response, for logging and after-action review.
func DescribeContingencyResponse(response planning.ContingencyResponse) string {
	switch response.Kind {
	case planning.RespExecutePlan:
		return fmt.Sprintf("Execute backup plan for unit %v", response.Unit)
	case planning.RespRetreat:
		return fmt.Sprintf("Retreat via %d hexes", len(response.Route))
	case planning.RespRally:
		return fmt.Sprintf("Rally at %v", response.RallyPoint)
	case planning.RespSignal:
		return fmt.Sprintf("Signal go-code %v", response.GoCode)
	default:
		return "unknown contingency response"
	}
}
