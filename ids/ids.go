// Package ids defines the identifier newtypes shared across the battle
// engine, each a distinct type over uuid.UUID so a UnitID can never be
// passed where a FormationID is expected.
package ids

import "github.com/google/uuid"

// EntityID identifies any individual combatant, courier rider, or commander
// entity tracked outside the tactical abstraction (elements, leaders).
type EntityID uuid.UUID

// NewEntityID generates a fresh random entity identifier.
func NewEntityID() EntityID { return EntityID(uuid.New()) }

// ArmyID identifies one side's army for a battle.
type ArmyID uuid.UUID

// NewArmyID generates a fresh random army identifier.
func NewArmyID() ArmyID { return ArmyID(uuid.New()) }

// FormationID identifies a formation within an army.
type FormationID uuid.UUID

// NewFormationID generates a fresh random formation identifier.
func NewFormationID() FormationID { return FormationID(uuid.New()) }

// UnitID identifies a single unit within a formation.
type UnitID uuid.UUID

// NewUnitID generates a fresh random unit identifier.
func NewUnitID() UnitID { return UnitID(uuid.New()) }

// CourierID identifies a courier in flight.
type CourierID uuid.UUID

// NewCourierID generates a fresh random courier identifier.
func NewCourierID() CourierID { return CourierID(uuid.New()) }

// GoCodeID identifies a named go-code trigger.
type GoCodeID uuid.UUID

// NewGoCodeID generates a fresh random go-code identifier.
func NewGoCodeID() GoCodeID { return GoCodeID(uuid.New()) }

// FormationLineID identifies a deployed formation-line layout (used by
// FormLine/MoveToFormationSlot orders).
type FormationLineID uuid.UUID

// NewFormationLineID generates a fresh random formation-line identifier.
func NewFormationLineID() FormationLineID { return FormationLineID(uuid.New()) }
