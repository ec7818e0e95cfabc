package config

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/kilianp07/auvsim/core/mission"
)

// PointConfig is a position in metres.
type PointConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FinishAreaConfig describes a square finish area.
type FinishAreaConfig struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// GoalConfig selects the transit goal: a fixed point, or the smallest of
// the finish areas. Without either the vehicle heads to (10, 10).
type GoalConfig struct {
	Point       *PointConfig       `json:"point"`
	FinishAreas []FinishAreaConfig `json:"finish_areas"`
}

func (c GoalConfig) Validate() error {
	for i, a := range c.FinishAreas {
		if a.Size <= 0 {
			return fmt.Errorf("finish_areas[%d]: size must be > 0", i)
		}
	}
	return nil
}

// Provider builds the goal provider. Finish areas take precedence over the
// point.
func (c GoalConfig) Provider() mission.GoalProvider {
	if len(c.FinishAreas) > 0 {
		areas := make(mission.FinishAreaGoal, len(c.FinishAreas))
		for i, a := range c.FinishAreas {
			areas[i] = mission.FinishArea{Name: a.Name, Center: r2.Vec{X: a.X, Y: a.Y}, Size: a.Size}
		}
		return areas
	}
	if c.Point != nil {
		return mission.FixedGoal{X: c.Point.X, Y: c.Point.Y}
	}
	return mission.DefaultGoal
}
