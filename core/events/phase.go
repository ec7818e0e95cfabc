package events

import (
	"time"

	"github.com/kilianp07/auvsim/core/model"
)

// Event is any value published on the mission bus.
type Event interface {
	MissionEvent() string
}

// PhaseEvent is published on every state machine transition.
type PhaseEvent struct {
	MissionID string
	From      model.Phase
	To        model.Phase
	Time      time.Time
}

func (PhaseEvent) MissionEvent() string { return "phase" }

// EmergencyEvent is published when the vehicle is forced to the surface.
type EmergencyEvent struct {
	MissionID string
	Phase     model.Phase // phase that was aborted
	Depth     float64     // depth after the procedure
	Err       error
	Time      time.Time
}

func (EmergencyEvent) MissionEvent() string { return "emergency" }

// Publisher accepts mission events.
type Publisher interface {
	Publish(Event)
}
