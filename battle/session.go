package battle

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nstehr/vimy-core/execution"
	"github.com/nstehr/vimy-core/ipc"
)

// Session owns one battle end to end: it decodes setup/order/tick
// envelopes off a single connection, drives the BattleState, and encodes
// the resulting events back onto the wire. One Session per connection,
// one BattleState per Session — never shared across goroutines.
type Session struct {
	conn  *ipc.Connection
	state *execution.BattleState

	friendlyCourierCursor int
}

// NewSession returns a session bound to conn, with no battle started yet.
func NewSession(conn *ipc.Connection) *Session {
	return &Session{conn: conn}
}

// HandleSetup builds the battle from the incoming setup message. A second
// setup on the same connection is rejected — a session runs exactly one
// battle.
func (s *Session) HandleSetup(env ipc.Envelope) (*ipc.Envelope, error) {
	if s.state != nil {
		return nil, fmt.Errorf("battle already set up on this connection")
	}

	var setup ipc.SetupMessage
	if err := json.Unmarshal(env.Data, &setup); err != nil {
		return nil, fmt.Errorf("unmarshal setup: %w", err)
	}

	state, err := NewBattle(setup)
	if err != nil {
		return nil, fmt.Errorf("build battle: %w", err)
	}
	s.state = state
	s.conn.BattleID = uuid.UUID(state.FriendlyArmy.ID).String()

	slog.Info("battle started",
		"friendlyStrength", state.FriendlyArmy.TotalStrength(),
		"enemyStrength", state.EnemyArmy.TotalStrength(),
	)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleOrder converts and dispatches a single order against the friendly
// side — the only side an external client commands; the enemy side is
// commanded by its own AI commander at the end of every tick.
func (s *Session) HandleOrder(env ipc.Envelope) (*ipc.Envelope, error) {
	if s.state == nil {
		return nil, fmt.Errorf("no battle set up on this connection")
	}

	var msg ipc.OrderMessage
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}

	order, err := parseOrder(msg)
	if err != nil {
		return nil, fmt.Errorf("parse order: %w", err)
	}

	if err := dispatch(s.state, s.state.FriendlyArmy, order, &s.friendlyCourierCursor); err != nil {
		return nil, fmt.Errorf("dispatch order: %w", err)
	}

	slog.Debug("order dispatched", "kind", msg.Kind, "tick", s.state.Tick)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleTick advances the battle by exactly one tick and replies with
// everything that happened during it.
func (s *Session) HandleTick(env ipc.Envelope) (*ipc.Envelope, error) {
	if s.state == nil {
		return nil, fmt.Errorf("no battle set up on this connection")
	}

	logStart := len(s.state.BattleLog)
	s.state.AdvanceTick()
	tickEvents := s.state.BattleLog[logStart:]

	result := ipc.TickResultMessage{
		Tick:     s.state.Tick,
		Finished: s.state.IsFinished(),
		Events:   toEventMessages(tickEvents),
	}
	if s.state.IsFinished() {
		result.Outcome = s.state.Outcome.String()
	}

	reply, err := ipc.NewEnvelope(ipc.TypeTickResult, result)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}
