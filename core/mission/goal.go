package mission

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// GoalProvider supplies the transit target.
type GoalProvider interface {
	Goal(ctx context.Context) (r2.Vec, error)
}

// GoalFunc adapts a function to GoalProvider.
type GoalFunc func(ctx context.Context) (r2.Vec, error)

func (f GoalFunc) Goal(ctx context.Context) (r2.Vec, error) { return f(ctx) }

// FixedGoal always returns the same position.
type FixedGoal r2.Vec

func (g FixedGoal) Goal(context.Context) (r2.Vec, error) { return r2.Vec(g), nil }

// DefaultGoal is the simulation finish position.
var DefaultGoal = FixedGoal{X: 10, Y: 10}

// FinishArea is a square target zone.
type FinishArea struct {
	Name   string
	Center r2.Vec
	Size   float64 // side length in metres
}

// FinishAreaGoal targets the centre of the smallest configured finish area.
// Areas without a size are ignored.
type FinishAreaGoal []FinishArea

func (areas FinishAreaGoal) Goal(context.Context) (r2.Vec, error) {
	a, ok := areas.Smallest()
	if !ok {
		return r2.Vec{}, fmt.Errorf("no finish area with a size configured")
	}
	return a.Center, nil
}

// Smallest returns the sized area with the smallest side.
func (areas FinishAreaGoal) Smallest() (FinishArea, bool) {
	var (
		best  FinishArea
		found bool
	)
	for _, a := range areas {
		if a.Size <= 0 {
			continue
		}
		if !found || a.Size < best.Size {
			best, found = a, true
		}
	}
	return best, found
}
