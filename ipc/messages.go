package ipc

// Envelope type constants. Unlike the RTS bridge's hello/game_state
// handshake, a battle connection carries exactly one battle at a time:
// a single setup, any number of orders, and a tick-advance/result pair
// repeated until the battle ends.
const (
	TypeSetup      = "setup"
	TypeOrder      = "order"
	TypeTick       = "tick"
	TypeTickResult = "tick_result"
	TypeAck        = "ack"
)

// Coord is the wire form of a hex.Coord.
type Coord struct {
	Q int32 `json:"q"`
	R int32 `json:"r"`
}

// UnitSetup places one unit in its starting formation.
type UnitSetup struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Strength int    `json:"strength"`
	Position Coord  `json:"position"`
	Facing   int    `json:"facing"`
}

// FormationSetup groups units under a commander entity.
type FormationSetup struct {
	ID        string      `json:"id"`
	Commander string      `json:"commander"`
	Name      string      `json:"name,omitempty"`
	Units     []UnitSetup `json:"units"`
}

// ArmySetup is one side's starting deployment.
type ArmySetup struct {
	Commander  string           `json:"commander"`
	HQPosition Coord            `json:"hqPosition"`
	Formations []FormationSetup `json:"formations"`
}

// SetupMessage is the TypeSetup envelope payload: map dimensions and both
// armies' starting deployments. The engine does no spawning of its own —
// everything fielded in a battle arrives through this message.
type SetupMessage struct {
	MapWidth  uint32    `json:"mapWidth"`
	MapHeight uint32    `json:"mapHeight"`
	Friendly  ArmySetup `json:"friendly"`
	Enemy     ArmySetup `json:"enemy"`
	RNGSeed   uint64    `json:"rngSeed"`
}

// AckMessage acknowledges a setup or order message.
type AckMessage struct {
	Status string `json:"status"`
}

// EventMessage is the wire form of one execution.BattleEvent.
type EventMessage struct {
	Tick        uint64 `json:"tick"`
	Kind        string `json:"kind"`
	UnitID      string `json:"unitId,omitempty"`
	EntityID    string `json:"entityId,omitempty"`
	Name        string `json:"name,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	Description string `json:"description"`
}

// TickResultMessage is the TypeTickResult reply to a TypeTick request: the
// events the tick just produced, the tick counter, and whether the battle
// has concluded.
type TickResultMessage struct {
	Tick     uint64         `json:"tick"`
	Finished bool           `json:"finished"`
	Outcome  string         `json:"outcome,omitempty"`
	Events   []EventMessage `json:"events"`
}
