package config

import (
	"time"

	"github.com/kilianp07/auvsim/core/mission"
)

// MissionConfig is the file form of mission.Config: durations in seconds,
// distances in metres. Zero values take the defaults.
type MissionConfig struct {
	ID                    string  `json:"id"`
	MaxMissionTimeS       float64 `json:"max_mission_time_s"`
	MinDepth              float64 `json:"min_depth"`
	MaxDepth              float64 `json:"max_depth"`
	TargetDepth           float64 `json:"target_depth"`
	BatteryLowThreshold   float64 `json:"battery_low_threshold"`
	EmergencySurfaceDepth float64 `json:"emergency_surface_depth"`
	PositionTolerance     float64 `json:"position_tolerance"`
	HeadingTolerance      float64 `json:"heading_tolerance"`
	DepthTolerance        float64 `json:"depth_tolerance"`
	Speed                 float64 `json:"speed"`
	VerticalSpeed         float64 `json:"vertical_speed"`
	StepIntervalS         float64 `json:"step_interval_s"`
	// Realtime paces the loop with the wall clock. Otherwise a synthetic
	// clock makes the run instantaneous and reproducible.
	Realtime bool `json:"realtime"`
}

// SetDefaults fills zero fields from mission.DefaultConfig.
func (c *MissionConfig) SetDefaults() {
	d := mission.DefaultConfig()
	setDefault(&c.MaxMissionTimeS, d.MaxMissionTime.Seconds())
	setDefault(&c.MinDepth, d.MinDepth)
	setDefault(&c.MaxDepth, d.MaxDepth)
	setDefault(&c.TargetDepth, d.TargetDepth)
	setDefault(&c.BatteryLowThreshold, d.BatteryLowThreshold)
	setDefault(&c.EmergencySurfaceDepth, d.EmergencySurfaceDepth)
	setDefault(&c.PositionTolerance, d.PositionTolerance)
	setDefault(&c.HeadingTolerance, d.HeadingTolerance)
	setDefault(&c.DepthTolerance, d.DepthTolerance)
	setDefault(&c.Speed, d.Speed)
	setDefault(&c.VerticalSpeed, d.VerticalSpeed)
	setDefault(&c.StepIntervalS, d.StepInterval.Seconds())
}

func setDefault(v *float64, d float64) {
	if *v == 0 {
		*v = d
	}
}

// Validate delegates to mission.Config.Validate.
func (c MissionConfig) Validate() error {
	return c.Mission().Validate()
}

// Mission converts the section to the controller configuration.
func (c MissionConfig) Mission() mission.Config {
	return mission.Config{
		MaxMissionTime:        seconds(c.MaxMissionTimeS),
		MinDepth:              c.MinDepth,
		MaxDepth:              c.MaxDepth,
		TargetDepth:           c.TargetDepth,
		BatteryLowThreshold:   c.BatteryLowThreshold,
		EmergencySurfaceDepth: c.EmergencySurfaceDepth,
		PositionTolerance:     c.PositionTolerance,
		HeadingTolerance:      c.HeadingTolerance,
		DepthTolerance:        c.DepthTolerance,
		Speed:                 c.Speed,
		VerticalSpeed:         c.VerticalSpeed,
		StepInterval:          seconds(c.StepIntervalS),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
