package battle

import (
	"github.com/google/uuid"

	"github.com/nstehr/vimy-core/execution"
	"github.com/nstehr/vimy-core/ids"
	"github.com/nstehr/vimy-core/ipc"
)

var eventKindNames = map[execution.BattleEventKind]string{
	execution.EventBattleStarted:      "battle_started",
	execution.EventUnitEngaged:        "unit_engaged",
	execution.EventUnitBroke:          "unit_broke",
	execution.EventUnitRallied:        "unit_rallied",
	execution.EventCommanderKilled:    "commander_killed",
	execution.EventObjectiveCaptured:  "objective_captured",
	execution.EventCourierIntercepted: "courier_intercepted",
	execution.EventGoCodeTriggered:    "go_code_triggered",
	execution.EventBattleEnded:        "battle_ended",
}

func unitIDString(id ids.UnitID) string {
	if id == (ids.UnitID{}) {
		return ""
	}
	return uuid.UUID(id).String()
}

func entityIDString(id ids.EntityID) string {
	if id == (ids.EntityID{}) {
		return ""
	}
	return uuid.UUID(id).String()
}

// toEventMessage converts one execution.BattleEvent to its wire form.
func toEventMessage(event execution.BattleEvent) ipc.EventMessage {
	msg := ipc.EventMessage{
		Tick:        event.Tick,
		Kind:        eventKindNames[event.EventType.Kind],
		UnitID:      unitIDString(event.EventType.UnitID),
		EntityID:    entityIDString(event.EventType.EntityID),
		Name:        event.EventType.Name,
		Description: event.Description,
	}
	if event.EventType.Kind == execution.EventBattleEnded {
		msg.Outcome = event.EventType.Outcome.String()
	}
	return msg
}

func toEventMessages(events []execution.BattleEvent) []ipc.EventMessage {
	out := make([]ipc.EventMessage, len(events))
	for i, e := range events {
		out[i] = toEventMessage(e)
	}
	return out
}
