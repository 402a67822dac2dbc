// Package battle wires the tactical battle engine to a single IPC
// connection: one setup message fields both armies, orders are converted
// to couriers and dispatched from the issuing side's headquarters, and
// tick requests advance the simulation and report back what happened.
package battle

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/nstehr/vimy-core/ai"
	"github.com/nstehr/vimy-core/battlemap"
	"github.com/nstehr/vimy-core/execution"
	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/ipc"
	"github.com/nstehr/vimy-core/unittype"
	"github.com/nstehr/vimy-core/units"
)

var unitTypeNames = map[string]unittype.Type{
	"levy":          unittype.Levy,
	"infantry":      unittype.Infantry,
	"heavyInfantry": unittype.HeavyInfantry,
	"spearmen":      unittype.Spearmen,
	"archers":       unittype.Archers,
	"crossbowmen":   unittype.Crossbowmen,
	"lightCavalry":  unittype.LightCavalry,
	"cavalry":       unittype.Cavalry,
	"heavyCavalry":  unittype.HeavyCavalry,
	"horseArchers":  unittype.HorseArchers,
	"engineers":     unittype.Engineers,
	"scouts":        unittype.Scouts,
	"command":       unittype.Command,
}

func parseCoord(c ipc.Coord) hex.Coord {
	return hex.New(c.Q, c.R)
}

func parseEntityID(raw string) (ids.EntityID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return ids.EntityID{}, fmt.Errorf("parse entity id %q: %w", raw, err)
	}
	return ids.EntityID(u), nil
}

func buildArmy(armyID ids.ArmyID, setup ipc.ArmySetup) (*units.Army, error) {
	commander, err := parseEntityID(setup.Commander)
	if err != nil {
		return nil, fmt.Errorf("army commander: %w", err)
	}

	army := units.NewArmy(armyID, commander)
	army.HQPosition = parseCoord(setup.HQPosition)

	for _, fs := range setup.Formations {
		formationCommander, err := parseEntityID(fs.Commander)
		if err != nil {
			return nil, fmt.Errorf("formation %s commander: %w", fs.ID, err)
		}

		formation := units.NewFormation(ids.NewFormationID(), formationCommander)
		formation.Name = fs.Name

		for _, us := range fs.Units {
			unitType, ok := unitTypeNames[us.Type]
			if !ok {
				return nil, fmt.Errorf("unit %s: unknown unit type %q", us.ID, us.Type)
			}
			if us.Strength <= 0 {
				return nil, fmt.Errorf("unit %s: strength must be positive, got %d", us.ID, us.Strength)
			}

			unit := units.NewUnit(ids.NewUnitID(), unitType)
			unit.Position = parseCoord(us.Position)
			unit.Facing = hex.Direction(us.Facing)
			unit.Elements = append(unit.Elements, units.NewElement(make([]ids.EntityID, us.Strength)))

			formation.Units = append(formation.Units, unit)
		}

		army.Formations = append(army.Formations, formation)
	}

	// Each formation adds one freshly generated courier rider to the pool
	// (with at least one rider per side), so the courier system always has
	// an entity on hand to carry an order.
	for range setup.Formations {
		army.CourierPool = append(army.CourierPool, ids.NewEntityID())
	}
	if len(army.CourierPool) == 0 {
		army.CourierPool = append(army.CourierPool, ids.NewEntityID())
	}

	return army, nil
}

// NewBattle builds a fresh BattleState from a setup message and starts it,
// so it is already in the Active phase. The enemy side gets a default-personality AI commander
// seeded from the same RNG seed the battle itself uses, so a battle with
// the same setup and seed replays identically.
func NewBattle(setup ipc.SetupMessage) (*execution.BattleState, error) {
	if setup.MapWidth == 0 || setup.MapHeight == 0 {
		return nil, fmt.Errorf("map dimensions must be positive, got %dx%d", setup.MapWidth, setup.MapHeight)
	}

	m := battlemap.New(setup.MapWidth, setup.MapHeight)

	friendly, err := buildArmy(ids.NewArmyID(), setup.Friendly)
	if err != nil {
		return nil, fmt.Errorf("friendly army: %w", err)
	}
	enemy, err := buildArmy(ids.NewArmyID(), setup.Enemy)
	if err != nil {
		return nil, fmt.Errorf("enemy army: %w", err)
	}

	state := execution.New(m, friendly, enemy)

	seed := setup.RNGSeed
	if seed == 0 {
		seed = 42
	}
	state.RNG = rand.New(rand.NewPCG(seed, seed))
	state.EnemyCommander = ai.NewCommanderWithSeed(ai.DefaultPersonality(), seed)

	state.StartBattle()

	return state, nil
}
