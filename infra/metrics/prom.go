package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/core/model"
)

// PromObserver mirrors the vehicle state into Prometheus collectors.
type PromObserver struct {
	depth       *prometheus.GaugeVec
	heading     *prometheus.GaugeVec
	battery     *prometheus.GaugeVec
	distance    *prometheus.GaugeVec
	phase       *prometheus.GaugeVec
	steps       *prometheus.CounterVec
	transitions *prometheus.CounterVec
	emergencies *prometheus.CounterVec
}

// NewPromObserver registers the mission collectors on reg. A nil registerer
// defaults to the global Prometheus registerer. Collectors already
// registered by a previous observer are reused.
func NewPromObserver(reg prometheus.Registerer) (*PromObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := []string{"mission_id"}
	o := &PromObserver{
		depth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "auv_depth_meters",
			Help: "Current depth below the surface",
		}, labels),
		heading: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "auv_heading_degrees",
			Help: "Current heading, 0 along +x",
		}, labels),
		battery: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "auv_battery_percent",
			Help: "Remaining battery",
		}, labels),
		distance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "auv_goal_distance_meters",
			Help: "Horizontal distance to the transit goal",
		}, labels),
		phase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "auv_mission_phase",
			Help: "Current mission phase as its ordinal (0=INIT .. 5=FAILED)",
		}, labels),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auv_control_steps_total",
			Help: "Control steps observed",
		}, []string{"mission_id", "phase"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auv_phase_transitions_total",
			Help: "Mission phase transitions",
		}, []string{"from", "to"}),
		emergencies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auv_emergency_surface_total",
			Help: "Emergency surface procedures by aborted phase",
		}, []string{"phase"}),
	}
	var err error
	if o.depth, err = registerGaugeVec(reg, o.depth); err != nil {
		return nil, err
	}
	if o.heading, err = registerGaugeVec(reg, o.heading); err != nil {
		return nil, err
	}
	if o.battery, err = registerGaugeVec(reg, o.battery); err != nil {
		return nil, err
	}
	if o.distance, err = registerGaugeVec(reg, o.distance); err != nil {
		return nil, err
	}
	if o.phase, err = registerGaugeVec(reg, o.phase); err != nil {
		return nil, err
	}
	if o.steps, err = registerCounterVec(reg, o.steps); err != nil {
		return nil, err
	}
	if o.transitions, err = registerCounterVec(reg, o.transitions); err != nil {
		return nil, err
	}
	if o.emergencies, err = registerCounterVec(reg, o.emergencies); err != nil {
		return nil, err
	}
	return o, nil
}

func registerGaugeVec(reg prometheus.Registerer, c *prometheus.GaugeVec) (*prometheus.GaugeVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// Observe updates the gauges from snap.
func (o *PromObserver) Observe(_ context.Context, snap model.Snapshot) error {
	id := snap.MissionID
	o.depth.WithLabelValues(id).Set(snap.Depth)
	o.heading.WithLabelValues(id).Set(snap.Heading)
	o.battery.WithLabelValues(id).Set(snap.BatteryLevel)
	o.distance.WithLabelValues(id).Set(goalDistance(snap))
	o.phase.WithLabelValues(id).Set(float64(snap.Phase))
	o.steps.WithLabelValues(id, snap.Phase.String()).Inc()
	return nil
}

// RecordPhase counts a transition.
func (o *PromObserver) RecordPhase(ev events.PhaseEvent) error {
	o.transitions.WithLabelValues(ev.From.String(), ev.To.String()).Inc()
	return nil
}

// RecordEmergency counts an emergency surface.
func (o *PromObserver) RecordEmergency(ev events.EmergencyEvent) error {
	o.emergencies.WithLabelValues(ev.Phase.String()).Inc()
	return nil
}
