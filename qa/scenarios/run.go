package scenarios

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/auvsim/config"
	"github.com/kilianp07/auvsim/core/battery"
	"github.com/kilianp07/auvsim/core/clock"
	"github.com/kilianp07/auvsim/core/mission"
	"github.com/kilianp07/auvsim/core/model"
	"github.com/kilianp07/auvsim/infra/logger"
)

// RunScenario loads the scenario configuration through config.Load, runs
// the mission on a synthetic clock and checks the expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	raw, err := yaml.Marshal(sc.Config)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err, "scenario %s config", sc.Name)

	drain, err := battery.New(cfg.Battery)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	steps := 0
	counter := mission.ObserverFunc(func(context.Context, model.Snapshot) error {
		steps++
		if sc.CancelAfterSteps > 0 && steps >= sc.CancelAfterSteps {
			cancel()
		}
		return nil
	})

	ctl, err := mission.New(cfg.Mission.Mission(),
		mission.WithClock(clock.NewManual(time.Unix(0, 0))),
		mission.WithGoal(cfg.Goal.Provider()),
		mission.WithBattery(drain),
		mission.WithObservers(counter),
		mission.WithLogger(logger.NopLogger{}),
		mission.WithMissionID(sc.Name),
	)
	require.NoError(t, err)
	res := ctl.Execute(ctx)

	exp := sc.Expected
	assert.Equal(t, exp.Phase, res.Phase.String(), "scenario %s: %v", sc.Name, res.Err)
	switch exp.Fault {
	case "safety":
		assert.ErrorIs(t, res.Err, mission.ErrSafetyViolation)
	case "unexpected":
		assert.ErrorIs(t, res.Err, mission.ErrUnexpectedFault)
	case "":
		assert.NoError(t, res.Err)
	}
	if exp.Reason != "" {
		var sv *mission.SafetyViolation
		if assert.ErrorAs(t, res.Err, &sv) {
			assert.Equal(t, exp.Reason, string(sv.Reason))
		}
	}
	if exp.FinalDepth != nil {
		assert.InDelta(t, *exp.FinalDepth, res.Final.Depth, 1e-9)
	}
	if exp.ReachedGoal {
		hist := res.Final.PositionHistory
		require.NotEmpty(t, hist)
		last := hist[len(hist)-1]
		assert.LessOrEqual(t, r2.Norm(r2.Sub(res.Final.Goal, last)), cfg.Mission.PositionTolerance)
	}
	if exp.MaxSeconds > 0 {
		assert.LessOrEqual(t, res.Duration.Seconds(), exp.MaxSeconds)
	}
}
