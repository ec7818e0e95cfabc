package observers

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/core/factory"
	"github.com/kilianp07/auvsim/core/mission"
	"github.com/kilianp07/auvsim/core/model"
	"github.com/kilianp07/auvsim/infra/metrics"
	"github.com/kilianp07/auvsim/infra/render"
)

func TestNames(t *testing.T) {
	assert.Subset(t, Names(), []string{"influx", "log", "mqtt", "prometheus", "render"})
}

func TestNew_Builtins(t *testing.T) {
	obs, err := New(factory.ModuleConfig{Type: "log", Conf: map[string]any{"every": "5"}})
	require.NoError(t, err)
	assert.Equal(t, 5, obs.(*LogObserver).every)

	obs, err = New(factory.ModuleConfig{Type: "render", Conf: map[string]any{"path": filepath.Join(t.TempDir(), "m.png")}})
	require.NoError(t, err)
	assert.IsType(t, &render.Renderer{}, obs)

	obs, err = New(factory.ModuleConfig{Type: "prometheus"})
	require.NoError(t, err)
	assert.IsType(t, &metrics.PromObserver{}, obs)

	obs, err = New(factory.ModuleConfig{Type: "influx", Conf: map[string]any{
		"url": "http://localhost:8086", "org": "o", "bucket": "b", "skip_health_check": true,
	}})
	require.NoError(t, err)
	assert.IsType(t, &metrics.InfluxObserver{}, obs)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(factory.ModuleConfig{Type: "sonar"})
	assert.ErrorContains(t, err, "unknown module type")

	_, err = New(factory.ModuleConfig{Type: "influx"})
	assert.ErrorContains(t, err, "url is required")

	_, err = New(factory.ModuleConfig{Type: "render", Conf: map[string]any{"path": "out.jpg"}})
	assert.Error(t, err)
}

type closeTracker struct{ closed bool }

func (c *closeTracker) Observe(context.Context, model.Snapshot) error { return nil }
func (c *closeTracker) Close() error                                  { c.closed = true; return nil }

func TestNewAll_ClosesOnFailure(t *testing.T) {
	tracker := &closeTracker{}
	require.NoError(t, Register("tracker-test", func(map[string]any) (mission.Observer, error) { return tracker, nil }))
	require.NoError(t, Register("broken-test", func(map[string]any) (mission.Observer, error) { return nil, fmt.Errorf("boom") }))

	_, err := NewAll([]factory.ModuleConfig{{Type: "tracker-test"}, {Type: "broken-test"}})
	require.ErrorContains(t, err, "observer 1")
	assert.True(t, tracker.closed)
}

type memLogger struct {
	debug, info, errs int
}

func (m *memLogger) Debugf(string, ...any)         { m.debug++ }
func (m *memLogger) Debugw(string, map[string]any) { m.debug++ }
func (m *memLogger) Infof(string, ...any)          { m.info++ }
func (m *memLogger) Warnf(string, ...any)          {}
func (m *memLogger) Errorf(string, ...any)         { m.errs++ }

func TestLogObserver(t *testing.T) {
	l := &memLogger{}
	o := newLogObserver(LogConfig{Every: 3}, l)
	for i := 0; i < 6; i++ {
		require.NoError(t, o.Observe(context.Background(), model.Snapshot{Phase: model.PhaseDiving}))
	}
	assert.Equal(t, 2, l.debug)

	require.NoError(t, o.Observe(context.Background(), model.Snapshot{Phase: model.PhaseCompleted}))
	assert.Equal(t, 3, l.debug, "terminal snapshots are always logged")

	require.NoError(t, metrics.Record(o, events.PhaseEvent{From: model.PhaseInit, To: model.PhaseDiving}))
	require.NoError(t, metrics.Record(o, events.EmergencyEvent{Phase: model.PhaseDiving}))
	assert.Equal(t, 1, l.info)
	assert.Equal(t, 1, l.errs)
}
