package ai

import "github.com/nstehr/vimy-core/hex"

// PhaseTransitionKind discriminates PhaseTransition's active condition.
type PhaseTransitionKind byte

const (
	TransitionTimeElapsed PhaseTransitionKind = iota
	TransitionStrengthRatioBelow
	TransitionCasualtiesExceed
	TransitionManual
	TransitionNever
)

// PhaseTransition is the condition that advances a commander to its next
// phase plan.
type PhaseTransition struct {
	Kind PhaseTransitionKind

	Tick      uint64  // TimeElapsed
	Threshold float32 // StrengthRatioBelow, CasualtiesExceed
}

// IsTriggered reports whether the transition condition currently holds.
// Manual and Never transitions only ever move via ForceAdvance.
func (t PhaseTransition) IsTriggered(ticksInPhase uint64, strengthRatio, casualties float32) bool {
	switch t.Kind {
	case TransitionTimeElapsed:
		return ticksInPhase >= t.Tick
	case TransitionStrengthRatioBelow:
		return strengthRatio < t.Threshold
	case TransitionCasualtiesExceed:
		return casualties > t.Threshold
	default:
		return false
	}
}

// PhasePlan is one stage of a multi-phase battle plan: Opening, Main
// assault, Exploitation, Withdrawal, or whatever phases a scenario defines.
type PhasePlan struct {
	Name               string
	PriorityTargets    []hex.Coord
	ReserveCommitment  float32 // fraction of reserves committed, 0.0 to 1.0
	AggressionModifier float32 // added to base aggression, -1.0 to 1.0
	Transition         PhaseTransition
}

// DefaultPhasePlan is a single, never-transitioning phase with no modifiers.
func DefaultPhasePlan() PhasePlan {
	return PhasePlan{Name: "Default", Transition: PhaseTransition{Kind: TransitionNever}}
}

// PhasePlanManager walks a commander through a sequence of phases as each
// one's transition condition triggers.
type PhasePlanManager struct {
	phases            []PhasePlan
	currentPhaseIndex int
	phaseStartTick    uint64
}

// NewPhasePlanManager returns a manager with a single default phase.
func NewPhasePlanManager() *PhasePlanManager {
	return &PhasePlanManager{phases: []PhasePlan{DefaultPhasePlan()}}
}

// AddPhase appends phase to the plan, replacing the initial default phase
// if nothing else has been added yet.
func (m *PhasePlanManager) AddPhase(phase PhasePlan) {
	if len(m.phases) == 1 && m.phases[0].Name == "Default" {
		m.phases[0] = phase
		return
	}
	m.phases = append(m.phases, phase)
}

// CurrentPhase returns the active phase plan.
func (m *PhasePlanManager) CurrentPhase() *PhasePlan {
	return &m.phases[m.currentPhaseIndex]
}

// Update checks the current phase's transition condition and advances if it
// has triggered.
func (m *PhasePlanManager) Update(currentTick uint64, strengthRatio, casualties float32) {
	var ticksInPhase uint64
	if currentTick > m.phaseStartTick {
		ticksInPhase = currentTick - m.phaseStartTick
	}

	if m.CurrentPhase().Transition.IsTriggered(ticksInPhase, strengthRatio, casualties) {
		m.advancePhase(currentTick)
	}
}

func (m *PhasePlanManager) advancePhase(currentTick uint64) {
	if m.currentPhaseIndex < len(m.phases)-1 {
		m.currentPhaseIndex++
		m.phaseStartTick = currentTick
	}
}

// ForceAdvance advances to the next phase regardless of its transition
// condition — used for Manual-transition phases driven by a go-code or
// contingency.
func (m *PhasePlanManager) ForceAdvance(currentTick uint64) {
	m.advancePhase(currentTick)
}

// IsFinalPhase reports whether the manager is on its last phase.
func (m *PhasePlanManager) IsFinalPhase() bool {
	return m.currentPhaseIndex >= len(m.phases)-1
}

// PhaseIndex returns the index of the current phase.
func (m *PhasePlanManager) PhaseIndex() int {
	return m.currentPhaseIndex
}
