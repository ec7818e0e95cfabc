package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Expected is the outcome a scenario asserts.
type Expected struct {
	Phase  string `yaml:"phase"`
	Reason string `yaml:"reason,omitempty"`
	// Fault is "safety", "unexpected" or empty.
	Fault      string   `yaml:"fault,omitempty"`
	FinalDepth *float64 `yaml:"final_depth,omitempty"`
	// ReachedGoal checks the last recorded position against the goal.
	ReachedGoal bool    `yaml:"reached_goal,omitempty"`
	MaxSeconds  float64 `yaml:"max_seconds,omitempty"`
}

// Scenario is one mission run described in YAML. Config holds the same
// sections as the service configuration file.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Config      map[string]any `yaml:"config"`
	// CancelAfterSteps aborts the run after that many observed steps.
	CancelAfterSteps int      `yaml:"cancel_after_steps,omitempty"`
	Expected         Expected `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: name is required", path)
	}
	return &sc, nil
}
