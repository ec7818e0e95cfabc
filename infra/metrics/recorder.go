// Package metrics exports mission telemetry. PromObserver keeps Prometheus
// gauges for the live vehicle state and InfluxObserver writes every step as
// a line protocol point. Both also record phase and emergency events
// delivered by StartEventCollector.
package metrics

import (
	"context"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/core/model"
)

// EventRecorder records mission events taken from the bus.
type EventRecorder interface {
	RecordPhase(ev events.PhaseEvent) error
	RecordEmergency(ev events.EmergencyEvent) error
}

// Nop implements both mission.Observer and EventRecorder and does nothing.
type Nop struct{}

func (Nop) Observe(context.Context, model.Snapshot) error { return nil }
func (Nop) RecordPhase(events.PhaseEvent) error           { return nil }
func (Nop) RecordEmergency(events.EmergencyEvent) error   { return nil }

func goalDistance(snap model.Snapshot) float64 {
	return r2.Norm(r2.Sub(snap.Goal, snap.Position))
}
