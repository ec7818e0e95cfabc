package mission

import (
	"fmt"
	"time"
)

// Config holds the immutable parameters of a mission. Distances are metres,
// speeds metres per second, angles degrees and percentages in [0,100].
type Config struct {
	MaxMissionTime time.Duration

	MinDepth    float64
	MaxDepth    float64
	TargetDepth float64

	BatteryLowThreshold   float64
	EmergencySurfaceDepth float64

	PositionTolerance float64
	HeadingTolerance  float64
	DepthTolerance    float64

	Speed         float64 // horizontal
	VerticalSpeed float64

	// StepInterval paces the loop between control steps.
	StepInterval time.Duration
}

// DefaultConfig returns the reference mission parameters.
func DefaultConfig() Config {
	return Config{
		MaxMissionTime:        600 * time.Second,
		MinDepth:              1.0,
		MaxDepth:              5.0,
		TargetDepth:           2.0,
		BatteryLowThreshold:   20,
		EmergencySurfaceDepth: 0.5,
		PositionTolerance:     0.5,
		HeadingTolerance:      5.0,
		DepthTolerance:        0.1,
		Speed:                 1.0,
		VerticalSpeed:         0.5,
		StepInterval:          100 * time.Millisecond,
	}
}

// Validate checks that the mission can make progress and stays within the
// configured depth envelope.
//
//gocyclo:ignore
func (c Config) Validate() error {
	switch {
	case c.MaxMissionTime <= 0:
		return fmt.Errorf("max mission time must be positive")
	case c.MinDepth < 0 || c.MaxDepth < c.MinDepth:
		return fmt.Errorf("invalid depth envelope [%.2f, %.2f]", c.MinDepth, c.MaxDepth)
	case c.TargetDepth < c.MinDepth || c.TargetDepth > c.MaxDepth:
		return fmt.Errorf("target depth %.2f outside [%.2f, %.2f]", c.TargetDepth, c.MinDepth, c.MaxDepth)
	case c.BatteryLowThreshold < 0 || c.BatteryLowThreshold > 100:
		return fmt.Errorf("battery threshold %.1f outside [0, 100]", c.BatteryLowThreshold)
	case c.EmergencySurfaceDepth < 0:
		return fmt.Errorf("emergency surface depth must not be negative")
	case c.PositionTolerance <= 0, c.HeadingTolerance <= 0, c.DepthTolerance <= 0:
		return fmt.Errorf("tolerances must be positive")
	case c.HeadingTolerance >= 180:
		return fmt.Errorf("heading tolerance must be below 180 degrees")
	case c.Speed <= 0 || c.VerticalSpeed <= 0:
		return fmt.Errorf("speeds must be positive")
	case c.StepInterval <= 0:
		return fmt.Errorf("step interval must be positive")
	}
	return nil
}
