package model

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// VehicleState is the instantaneous physical state of the simulated AUV.
// A single value is created at mission start and mutated in place by the
// mission controller.
type VehicleState struct {
	Position     r2.Vec  // metres in the fixed world frame
	Depth        float64 // metres below the surface, never negative
	Heading      float64 // degrees, 0 along +x
	BatteryLevel float64 // percent in [0,100]

	MissionStart time.Time
	LastUpdate   time.Time

	// PositionHistory holds copies of past positions for reporting.
	PositionHistory []r2.Vec

	// EmergencyMode is set by the emergency surface procedure and never
	// cleared within a run.
	EmergencyMode bool
}

// FullBattery is the battery level of a freshly initialised vehicle.
const FullBattery = 100.0

// Reset puts the vehicle back at the origin on the surface with a full
// battery and starts the mission clock at now.
func (s *VehicleState) Reset(now time.Time) {
	s.Position = r2.Vec{}
	s.Depth = 0
	s.Heading = 0
	s.BatteryLevel = FullBattery
	s.EmergencyMode = false
	s.MissionStart = now
	s.LastUpdate = now
	s.PositionHistory = s.PositionHistory[:0]
	s.RecordPosition()
}

// AdvanceClock returns the time elapsed since the previous call and moves
// LastUpdate to now. It must run exactly once per control step. A clock that
// went backwards yields zero and leaves LastUpdate untouched.
func (s *VehicleState) AdvanceClock(now time.Time) time.Duration {
	elapsed := now.Sub(s.LastUpdate)
	if elapsed < 0 {
		return 0
	}
	s.LastUpdate = now
	return elapsed
}

// RecordPosition appends a copy of the current position to the history.
func (s *VehicleState) RecordPosition() {
	s.PositionHistory = append(s.PositionHistory, s.Position)
}

// MissionElapsed returns the time spent since the mission started.
func (s *VehicleState) MissionElapsed(now time.Time) time.Duration {
	return now.Sub(s.MissionStart)
}

// DistanceTo returns the horizontal distance to target in metres.
func (s *VehicleState) DistanceTo(target r2.Vec) float64 {
	return r2.Norm(r2.Sub(target, s.Position))
}

// Snapshot is a point-in-time copy of the vehicle state handed to observers.
// It shares no memory with the live state.
type Snapshot struct {
	MissionID       string
	Phase           Phase
	Position        r2.Vec
	Depth           float64
	Heading         float64
	BatteryLevel    float64
	EmergencyMode   bool
	Goal            r2.Vec
	Elapsed         time.Duration
	Time            time.Time
	PositionHistory []r2.Vec
}

// Snapshot copies the state, tagging it with the mission phase and goal.
func (s *VehicleState) Snapshot(missionID string, phase Phase, goal r2.Vec, now time.Time) Snapshot {
	hist := make([]r2.Vec, len(s.PositionHistory))
	copy(hist, s.PositionHistory)
	return Snapshot{
		MissionID:       missionID,
		Phase:           phase,
		Position:        s.Position,
		Depth:           s.Depth,
		Heading:         s.Heading,
		BatteryLevel:    s.BatteryLevel,
		EmergencyMode:   s.EmergencyMode,
		Goal:            goal,
		Elapsed:         s.MissionElapsed(now),
		Time:            now,
		PositionHistory: hist,
	}
}
