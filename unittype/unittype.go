// Package unittype enumerates the kinds of military unit a battle can
// field and the default equipment/vision/morale properties each carries.
package unittype

import "github.com/nstehr/vimy-core/weapons"

// Type is the kind of military unit.
type Type byte

const (
	Levy Type = iota
	Infantry
	HeavyInfantry
	Spearmen
	Archers
	Crossbowmen
	LightCavalry
	Cavalry
	HeavyCavalry
	HorseArchers
	Engineers
	Scouts
	Command
)

// Properties is the default equipment/vision/morale profile for a Type.
type Properties struct {
	AvgWeapon           weapons.WeaponProperties
	AvgArmor            weapons.ArmorProperties
	MovementSpeed       float32
	VisionRange         uint32
	BaseStressThreshold float32
	CanCharge           bool
	CanSkirmish         bool
}

// DefaultProperties returns the default equipment/vision/morale profile for t.
func (t Type) DefaultProperties() Properties {
	switch t {
	case Levy:
		return Properties{
			AvgWeapon:           weapons.WeaponProperties{Edge: weapons.Sharp, Mass: weapons.Light, Reach: weapons.Short},
			AvgArmor:            weapons.ArmorProperties{Rigidity: weapons.Cloth, Padding: weapons.NoPadding, Coverage: weapons.NoCoverage},
			MovementSpeed:       1.0,
			VisionRange:         6,
			BaseStressThreshold: 0.6,
		}
	case Infantry:
		return Properties{
			AvgWeapon:           weapons.Sword(),
			AvgArmor:            weapons.LeatherArmor(),
			MovementSpeed:       1.0,
			VisionRange:         6,
			BaseStressThreshold: 1.0,
		}
	case HeavyInfantry:
		return Properties{
			AvgWeapon:           weapons.Sword(),
			AvgArmor:            weapons.PlateArmor(),
			MovementSpeed:       0.7,
			VisionRange:         5,
			BaseStressThreshold: 1.2,
		}
	case Spearmen:
		return Properties{
			AvgWeapon:           weapons.Spear(),
			AvgArmor:            weapons.MailArmor(),
			MovementSpeed:       0.9,
			VisionRange:         6,
			BaseStressThreshold: 1.0,
		}
	case Archers:
		return Properties{
			AvgWeapon:           weapons.WeaponProperties{Edge: weapons.Sharp, Mass: weapons.Light, Reach: weapons.Grapple},
			AvgArmor:            weapons.LeatherArmor(),
			MovementSpeed:       1.0,
			VisionRange:         10,
			BaseStressThreshold: 0.8,
			CanSkirmish:         true,
		}
	case Crossbowmen:
		return Properties{
			AvgWeapon:           weapons.WeaponProperties{Edge: weapons.Sharp, Mass: weapons.Medium, Reach: weapons.Grapple},
			AvgArmor:            weapons.MailArmor(),
			MovementSpeed:       0.9,
			VisionRange:         8,
			BaseStressThreshold: 0.9,
		}
	case LightCavalry:
		return Properties{
			AvgWeapon:           weapons.WeaponProperties{Edge: weapons.Sharp, Mass: weapons.Light, Reach: weapons.ReachMedium},
			AvgArmor:            weapons.LeatherArmor(),
			MovementSpeed:       2.0,
			VisionRange:         10,
			BaseStressThreshold: 0.8,
			CanCharge:           true,
			CanSkirmish:         true,
		}
	case Cavalry:
		return Properties{
			AvgWeapon:           weapons.Sword(),
			AvgArmor:            weapons.MailArmor(),
			MovementSpeed:       1.8,
			VisionRange:         8,
			BaseStressThreshold: 1.0,
			CanCharge:           true,
		}
	case HeavyCavalry:
		return Properties{
			AvgWeapon:           weapons.WeaponProperties{Edge: weapons.Sharp, Mass: weapons.Heavy, Reach: weapons.ReachMedium},
			AvgArmor:            weapons.PlateArmor(),
			MovementSpeed:       1.5,
			VisionRange:         6,
			BaseStressThreshold: 1.3,
			CanCharge:           true,
		}
	case HorseArchers:
		return Properties{
			AvgWeapon:           weapons.WeaponProperties{Edge: weapons.Sharp, Mass: weapons.Light, Reach: weapons.Grapple},
			AvgArmor:            weapons.LeatherArmor(),
			MovementSpeed:       2.0,
			VisionRange:         10,
			BaseStressThreshold: 0.8,
			CanSkirmish:         true,
		}
	case Engineers:
		return Properties{
			AvgWeapon:           weapons.Fists(),
			AvgArmor:            weapons.NoArmor(),
			MovementSpeed:       0.8,
			VisionRange:         6,
			BaseStressThreshold: 0.7,
		}
	case Scouts:
		return Properties{
			AvgWeapon:           weapons.Dagger(),
			AvgArmor:            weapons.LeatherArmor(),
			MovementSpeed:       1.5,
			VisionRange:         12,
			BaseStressThreshold: 0.7,
			CanSkirmish:         true,
		}
	case Command:
		return Properties{
			AvgWeapon:           weapons.Sword(),
			AvgArmor:            weapons.MailArmor(),
			MovementSpeed:       1.5,
			VisionRange:         8,
			BaseStressThreshold: 1.2,
		}
	default:
		return Properties{}
	}
}

// IsMounted reports whether t fights on horseback.
func (t Type) IsMounted() bool {
	switch t {
	case LightCavalry, Cavalry, HeavyCavalry, HorseArchers, Command:
		return true
	default:
		return false
	}
}

// IsRanged reports whether t's primary attack is ranged.
func (t Type) IsRanged() bool {
	switch t {
	case Archers, Crossbowmen, HorseArchers:
		return true
	default:
		return false
	}
}

// CanCharge reports whether t can receive a cavalry-charge shock bonus.
func (t Type) CanCharge() bool {
	return t.DefaultProperties().CanCharge
}
