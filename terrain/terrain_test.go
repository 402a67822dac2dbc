package terrain

import "testing"

func TestOpenTerrainNoPenalty(t *testing.T) {
	if Open.MovementCost() != 1.0 {
		t.Fatalf("Open.MovementCost() = %v, want 1.0", Open.MovementCost())
	}
}

func TestForestBlocksLOS(t *testing.T) {
	if !Forest.BlocksLOS() {
		t.Fatal("Forest should block LOS")
	}
	if Open.BlocksLOS() {
		t.Fatal("Open should not block LOS")
	}
}

func TestRoughProvidesCover(t *testing.T) {
	if !(Rough.CoverValue() > Open.CoverValue()) {
		t.Fatal("Rough should provide more cover than Open")
	}
}

func TestWaterImpassableForInfantry(t *testing.T) {
	if !DeepWater.ImpassableForInfantry() {
		t.Fatal("DeepWater should be impassable for infantry")
	}
	if ShallowWater.ImpassableForInfantry() {
		t.Fatal("ShallowWater should be passable for infantry")
	}
}

func TestCavalryCantEnterForest(t *testing.T) {
	if !Forest.ImpassableForCavalry() {
		t.Fatal("Forest should be impassable for cavalry")
	}
	if Open.ImpassableForCavalry() {
		t.Fatal("Open should be passable for cavalry")
	}
}

func TestRoadFasterThanOpen(t *testing.T) {
	if !(Road.MovementCost() < Open.MovementCost()) {
		t.Fatal("Road should be faster than Open")
	}
}

func TestFeatureDefenseBonuses(t *testing.T) {
	if !(Wall.DefenseBonus() > Hill.DefenseBonus()) {
		t.Fatal("Wall should give more defense than Hill")
	}
}
