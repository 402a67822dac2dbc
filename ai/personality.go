package ai

// Difficulty tunes how fallible and sighted a commander is.
type Difficulty struct {
	// MistakeChance is the probability a generated order is dropped instead
	// of issued.
	MistakeChance float32
	// IgnoresFogOfWar lets the commander see the whole enemy army regardless
	// of its own visibility state.
	IgnoresFogOfWar bool
}

// Behavior is the commander's baseline temperament.
type Behavior struct {
	// Aggression in [0, 1]; above 0.5 a unit with a target attacks it,
	// otherwise it advances to the midpoint and holds.
	Aggression float32
}

// Preferences governs the commander's evaluation cadence.
type Preferences struct {
	// ReEvaluationInterval is the minimum number of ticks between
	// evaluations, so orders aren't reissued before the last batch could
	// possibly have taken effect.
	ReEvaluationInterval uint64
}

// Weights scores targets and decides when to retreat.
type Weights struct {
	AttackValue       float32
	FlankingValue     float32
	RetreatThreshold  float32
	CasualtyThreshold float32
}

// Personality bundles every tunable that shapes how a commander decides.
// It has no counterpart file in the retrieval pack — authored from every
// field access found in the commander's decision logic.
type Personality struct {
	Name        string
	Behavior    Behavior
	Preferences Preferences
	Difficulty  Difficulty
	Weights     Weights
}

// DefaultPersonality returns moderate aggression, a 10% chance of dropping
// each order as a mistake (the commander tests set it to zero), retreat once
// the strength ratio drops under 30% or casualties exceed 50%, and ten ticks
// between evaluations.
func DefaultPersonality() Personality {
	return Personality{
		Name:        "Default",
		Behavior:    Behavior{Aggression: 0.5},
		Preferences: Preferences{ReEvaluationInterval: 10},
		Difficulty:  Difficulty{MistakeChance: 0.1, IgnoresFogOfWar: false},
		Weights: Weights{
			AttackValue:       1.0,
			FlankingValue:     1.0,
			RetreatThreshold:  0.3,
			CasualtyThreshold: 0.5,
		},
	}
}
