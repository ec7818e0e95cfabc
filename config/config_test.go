package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/kilianp07/auvsim/core/mission"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `mission:
  target_depth: 3
  max_mission_time_s: 120
  step_interval_s: 0.05
  realtime: true
battery:
  type: linear
  conf:
    idle_per_second: 0.1
goal:
  finish_areas:
    - {name: big, x: 20, y: 20, size: 4}
    - {name: small, x: 5, y: 8, size: 2}
observers:
  - type: log
    conf:
      every: 5
mqtt:
  broker: "tcp://broker:1883"
  client_id: "auv-1"
metrics:
  prometheus_enabled: true
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	m := cfg.Mission.Mission()
	assert.Equal(t, 3.0, m.TargetDepth)
	assert.Equal(t, 2*time.Minute, m.MaxMissionTime)
	assert.Equal(t, 50*time.Millisecond, m.StepInterval)
	assert.Equal(t, 5.0, m.MaxDepth, "unset fields keep defaults")
	assert.True(t, cfg.Mission.Realtime)

	assert.Equal(t, "linear", cfg.Battery.Type)
	require.Len(t, cfg.Observers, 1)
	assert.Equal(t, "log", cfg.Observers[0].Type)

	require.NotNil(t, cfg.MQTT)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "auv", cfg.MQTT.TopicPrefix)

	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, ":2112", cfg.Metrics.PrometheusPort)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 10.0, cfg.Sensors.IMUHz)

	goal, err := cfg.Goal.Provider().Goal(t.Context())
	require.NoError(t, err)
	assert.Equal(t, r2.Vec{X: 5, Y: 8}, goal)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"goal": {"point": {"x": 3, "y": -4}}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	goal, err := cfg.Goal.Provider().Goal(t.Context())
	require.NoError(t, err)
	assert.Equal(t, r2.Vec{X: 3, Y: -4}, goal)
	assert.Nil(t, cfg.MQTT)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, mission.DefaultConfig(), cfg.Mission.Mission())
	assert.Equal(t, Default(), cfg)

	goal, err := cfg.Goal.Provider().Goal(t.Context())
	require.NoError(t, err)
	assert.Equal(t, r2.Vec{X: 10, Y: 10}, goal)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AUV_MISSION__TARGET_DEPTH", "4")
	t.Setenv("AUV_LOGGING__LEVEL", "warn")
	cfg, err := Load(writeFile(t, "config.yaml", "mission:\n  target_depth: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.Mission.TargetDepth)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EnvOverrideWithoutFile(t *testing.T) {
	t.Setenv("AUV_MISSION__SPEED", "2.5")
	t.Setenv("AUV_METRICS__PROMETHEUS_ENABLED", "true")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Mission.Speed)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, mission.DefaultConfig().TargetDepth, cfg.Mission.TargetDepth)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"target outside envelope": "mission:\n  target_depth: 9\n",
		"bad level":               "logging:\n  level: loud\n",
		"empty finish area":       "goal:\n  finish_areas:\n    - {x: 1, y: 1}\n",
		"observer without type":   "observers:\n  - conf: {}\n",
		"influx without url":      "metrics:\n  influx_enabled: true\n",
		"negative rate":           "sensors:\n  gps_hz: -1\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", ""))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
