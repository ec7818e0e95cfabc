// Package battery provides the drain models applied to the vehicle battery
// after each control step.
package battery

import (
	"fmt"
	"time"

	"github.com/kilianp07/auvsim/core/factory"
)

// Effort describes the propulsion work done during a step.
type Effort struct {
	Horizontal float64 // metres travelled in the horizontal plane
	Vertical   float64 // metres of depth change
}

// Model returns the battery percentage consumed over a step.
type Model interface {
	Drain(elapsed time.Duration, effort Effort) float64
}

// None never drains the battery.
type None struct{}

func (None) Drain(time.Duration, Effort) float64 { return 0 }

// Linear drains a fixed amount per second plus an amount per metre moved.
// Vertical movement costs VerticalFactor times the horizontal rate.
type Linear struct {
	IdlePerSecond  float64 `json:"idle_per_second"`
	PerMetre       float64 `json:"per_metre"`
	VerticalFactor float64 `json:"vertical_factor"`
}

// Drain implements Model.
func (l Linear) Drain(elapsed time.Duration, effort Effort) float64 {
	secs := elapsed.Seconds()
	if secs < 0 {
		secs = 0
	}
	vf := l.VerticalFactor
	if vf == 0 {
		vf = 1
	}
	d := l.IdlePerSecond*secs + l.PerMetre*(abs(effort.Horizontal)+vf*abs(effort.Vertical))
	if d < 0 {
		return 0
	}
	return d
}

// Validate rejects negative rates.
func (l Linear) Validate() error {
	if l.IdlePerSecond < 0 || l.PerMetre < 0 || l.VerticalFactor < 0 {
		return fmt.Errorf("linear battery rates must not be negative")
	}
	return nil
}

// Apply subtracts the drain from level and clamps the result to [0,100].
func Apply(m Model, level float64, elapsed time.Duration, effort Effort) float64 {
	if m == nil {
		return level
	}
	level -= m.Drain(elapsed, effort)
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

var registry = factory.NewRegistry[Model]()

func init() {
	_ = registry.Register("none", func(map[string]any) (Model, error) { return None{}, nil })
	_ = registry.Register("linear", func(conf map[string]any) (Model, error) {
		var l Linear
		if err := factory.Decode(conf, &l); err != nil {
			return nil, err
		}
		if err := l.Validate(); err != nil {
			return nil, err
		}
		return l, nil
	})
}

// New builds a battery model from configuration. An empty type selects None.
func New(cfg factory.ModuleConfig) (Model, error) {
	if cfg.Type == "" {
		return None{}, nil
	}
	return registry.Create(cfg)
}
