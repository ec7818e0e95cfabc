package battery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/auvsim/core/factory"
)

func TestNoneNeverDrains(t *testing.T) {
	assert.Equal(t, 100.0, Apply(None{}, 100, time.Hour, Effort{Horizontal: 1000}))
}

func TestLinearDrain(t *testing.T) {
	l := Linear{IdlePerSecond: 0.1, PerMetre: 0.5, VerticalFactor: 2}
	// 2s idle => 0.2, 1m horizontal => 0.5, 0.5m vertical => 0.5
	assert.InDelta(t, 1.2, l.Drain(2*time.Second, Effort{Horizontal: 1, Vertical: -0.5}), 1e-9)
}

func TestApplyClamps(t *testing.T) {
	l := Linear{IdlePerSecond: 50}
	assert.Equal(t, 0.0, Apply(l, 10, 10*time.Second, Effort{}))
	assert.Equal(t, 42.0, Apply(nil, 42, time.Second, Effort{}))
}

func TestNewFromConfig(t *testing.T) {
	m, err := New(factory.ModuleConfig{})
	require.NoError(t, err)
	assert.IsType(t, None{}, m)

	m, err = New(factory.ModuleConfig{Type: "linear", Conf: map[string]any{"idle_per_second": 0.2, "per_metre": 0.1}})
	require.NoError(t, err)
	assert.Equal(t, Linear{IdlePerSecond: 0.2, PerMetre: 0.1}, m)

	_, err = New(factory.ModuleConfig{Type: "linear", Conf: map[string]any{"per_metre": -1}})
	assert.Error(t, err)

	_, err = New(factory.ModuleConfig{Type: "nuclear"})
	assert.Error(t, err)
}
