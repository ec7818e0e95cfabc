package observers

import (
	"context"

	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/core/model"
	"github.com/kilianp07/auvsim/infra/logger"
)

// LogConfig configures LogObserver.
type LogConfig struct {
	Every int `json:"every"` // log one snapshot out of Every, default 10
}

// LogObserver writes the vehicle status to the structured log.
type LogObserver struct {
	every int
	n     int
	log   logger.Logger
}

// NewLogObserver returns a LogObserver using the "mission" component logger.
func NewLogObserver(cfg LogConfig) *LogObserver {
	return newLogObserver(cfg, logger.New("mission"))
}

func newLogObserver(cfg LogConfig, log logger.Logger) *LogObserver {
	if cfg.Every <= 0 {
		cfg.Every = 10
	}
	return &LogObserver{every: cfg.Every, log: log}
}

// Observe logs every n-th snapshot and every terminal one.
func (o *LogObserver) Observe(_ context.Context, snap model.Snapshot) error {
	o.n++
	if o.n%o.every != 0 && !snap.Phase.Terminal() {
		return nil
	}
	o.log.Debugw("vehicle status", map[string]any{
		"mission_id": snap.MissionID,
		"phase":      snap.Phase.String(),
		"x":          snap.Position.X,
		"y":          snap.Position.Y,
		"depth":      snap.Depth,
		"heading":    snap.Heading,
		"battery":    snap.BatteryLevel,
		"elapsed_s":  snap.Elapsed.Seconds(),
	})
	return nil
}

// RecordPhase logs a phase transition.
func (o *LogObserver) RecordPhase(ev events.PhaseEvent) error {
	o.log.Infof("mission %s: %s -> %s", ev.MissionID, ev.From, ev.To)
	return nil
}

// RecordEmergency logs an emergency surface.
func (o *LogObserver) RecordEmergency(ev events.EmergencyEvent) error {
	o.log.Errorf("mission %s: emergency surface during %s at depth %.2f: %v", ev.MissionID, ev.Phase, ev.Depth, ev.Err)
	return nil
}
