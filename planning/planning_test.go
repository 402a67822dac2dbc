package planning

import (
	"testing"

	"github.com/nstehr/vimy-core/hex"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/units"
)

func TestWaypointCreation(t *testing.T) {
	wp := NewWaypoint(hex.New(5, 5), MoveTo)
	if wp.Position != hex.New(5, 5) {
		t.Fatalf("position = %v, want (5,5)", wp.Position)
	}
}

func TestGoCodeCreation(t *testing.T) {
	gc := NewGoCode("HAMMER", GoCodeTrigger{Kind: TriggerManual})
	if gc.Name != "HAMMER" {
		t.Fatalf("name = %q, want HAMMER", gc.Name)
	}
}

func TestBattlePlanAddDeployment(t *testing.T) {
	plan := NewBattlePlan()
	deployment := UnitDeployment{
		UnitID:        ids.NewUnitID(),
		Position:      hex.New(0, 0),
		Facing:        hex.East,
		InitialStance: units.Formed,
	}
	plan.Deployments = append(plan.Deployments, deployment)
	if len(plan.Deployments) != 1 {
		t.Fatalf("deployments = %d, want 1", len(plan.Deployments))
	}
}

func TestEngagementRuleAggressive(t *testing.T) {
	if !Aggressive.ShouldAttackOnSight() {
		t.Fatal("aggressive should attack on sight")
	}
}

func TestWaypointPlanAdvance(t *testing.T) {
	plan := NewWaypointPlan(ids.NewUnitID())
	plan.AddWaypoint(NewWaypoint(hex.New(0, 0), MoveTo))
	plan.AddWaypoint(NewWaypoint(hex.New(5, 5), HoldAt))

	if plan.CurrentWaypoint != 0 {
		t.Fatalf("current = %d, want 0", plan.CurrentWaypoint)
	}
	if !plan.Advance() {
		t.Fatal("expected advance to succeed")
	}
	if plan.CurrentWaypoint != 1 {
		t.Fatalf("current = %d, want 1", plan.CurrentWaypoint)
	}
	if plan.Advance() {
		t.Fatal("should not advance past the last waypoint")
	}
}

func TestGoCodeSubscribe(t *testing.T) {
	gc := NewGoCode("TEST", GoCodeTrigger{Kind: TriggerManual})
	unitID := ids.NewUnitID()

	gc.Subscribe(unitID)
	if len(gc.Subscribers) != 1 {
		t.Fatalf("subscribers = %d, want 1", len(gc.Subscribers))
	}

	gc.Subscribe(unitID)
	if len(gc.Subscribers) != 1 {
		t.Fatal("subscribing twice should not duplicate")
	}
}

func TestMovementPaceSpeed(t *testing.T) {
	if !(PaceCharge.SpeedMultiplier() > PaceRun.SpeedMultiplier()) {
		t.Fatal("charge should be faster than run")
	}
	if !(PaceRun.SpeedMultiplier() > PaceQuick.SpeedMultiplier()) {
		t.Fatal("run should be faster than quick")
	}
}

func TestWaypointPlanHasWaitStartTick(t *testing.T) {
	plan := NewWaypointPlan(ids.NewUnitID())
	if plan.WaitStartTick != nil {
		t.Fatal("fresh plan should have no wait start tick")
	}
}
