package unittype

import (
	"testing"

	"github.com/nstehr/vimy-core/weapons"
)

func TestHeavyInfantrySlow(t *testing.T) {
	if !(HeavyInfantry.DefaultProperties().MovementSpeed < 1.0) {
		t.Fatal("HeavyInfantry should be slower than baseline")
	}
}

func TestLightCavalryFast(t *testing.T) {
	if !(LightCavalry.DefaultProperties().MovementSpeed > 1.5) {
		t.Fatal("LightCavalry should be faster than 1.5")
	}
}

func TestScoutsGoodVision(t *testing.T) {
	if !(Scouts.DefaultProperties().VisionRange > 8) {
		t.Fatal("Scouts should see further than 8 hexes")
	}
}

func TestCavalryIsMounted(t *testing.T) {
	if !LightCavalry.IsMounted() {
		t.Fatal("LightCavalry should be mounted")
	}
	if !HeavyCavalry.IsMounted() {
		t.Fatal("HeavyCavalry should be mounted")
	}
	if Infantry.IsMounted() {
		t.Fatal("Infantry should not be mounted")
	}
}

func TestArchersAreRanged(t *testing.T) {
	if !Archers.IsRanged() {
		t.Fatal("Archers should be ranged")
	}
	if !Crossbowmen.IsRanged() {
		t.Fatal("Crossbowmen should be ranged")
	}
	if Infantry.IsRanged() {
		t.Fatal("Infantry should not be ranged")
	}
}

func TestSpearmenHaveLongReach(t *testing.T) {
	props := Spearmen.DefaultProperties()
	if props.AvgWeapon.Reach != weapons.Long {
		t.Fatalf("Spearmen reach = %v, want Long", props.AvgWeapon.Reach)
	}
}
