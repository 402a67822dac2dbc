package weapons

import "testing"

func TestSpearHasLongReach(t *testing.T) {
	if Spear().Reach != Long {
		t.Fatalf("Spear().Reach = %v, want Long", Spear().Reach)
	}
}

func TestShockStressSpikeOrdering(t *testing.T) {
	if !(RearCharge.StressSpike() > FlankAttack.StressSpike()) {
		t.Fatal("RearCharge should spike harder than FlankAttack")
	}
	if !(Ambush.StressSpike() > FlankAttack.StressSpike()) {
		t.Fatal("Ambush should spike harder than FlankAttack")
	}
}

func TestArmorConstructorsDistinct(t *testing.T) {
	if NoArmor().Rigidity != Cloth {
		t.Fatal("NoArmor should have Cloth rigidity")
	}
	if PlateArmor().Rigidity != Plate {
		t.Fatal("PlateArmor should have Plate rigidity")
	}
}
