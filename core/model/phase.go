package model

// Phase is a step of the mission state machine:
// INIT -> DIVING -> TRANSIT -> SURFACING -> {COMPLETED | FAILED}.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseDiving
	PhaseTransit
	PhaseSurfacing
	PhaseCompleted
	PhaseFailed
)

// String returns the upper-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseDiving:
		return "DIVING"
	case PhaseTransit:
		return "TRANSIT"
	case PhaseSurfacing:
		return "SURFACING"
	case PhaseCompleted:
		return "COMPLETED"
	case PhaseFailed:
		return "FAILED"
	default:
		return "unknown"
	}
}

// Terminal reports whether the mission cannot leave this phase.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}
