package render

import (
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/kilianp07/auvsim/core/model"
)

func snapshots() []model.Snapshot {
	goal := r2.Vec{X: 10, Y: 10}
	var out []model.Snapshot
	var hist []r2.Vec
	for i := 0; i <= 10; i++ {
		pos := r2.Vec{X: float64(i), Y: float64(i)}
		hist = append(hist, pos)
		out = append(out, model.Snapshot{
			MissionID:       "m",
			Phase:           model.PhaseTransit,
			Position:        pos,
			Depth:           2,
			Heading:         45,
			Goal:            goal,
			Elapsed:         time.Duration(i) * time.Second,
			PositionHistory: append([]r2.Vec(nil), hist...),
		})
	}
	return out
}

func TestRenderer_WritesPNGOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "mission.png")
	r, err := New(Config{Path: path, TargetDepth: 2, WidthInch: 4, HeightInch: 2})
	require.NoError(t, err)

	for _, s := range snapshots() {
		require.NoError(t, r.Observe(context.Background(), s))
	}
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "nothing is written before Close")

	require.NoError(t, r.Close())
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, cfg.Height)
}

func TestRenderer_Every(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.png")
	r, err := New(Config{Path: path, Every: 5, WidthInch: 4, HeightInch: 2})
	require.NoError(t, err)
	snaps := snapshots()
	for _, s := range snaps[:5] {
		require.NoError(t, r.Observe(context.Background(), s))
	}
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRenderer_CloseWithoutSnapshots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	r, err := New(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, r.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigValidate(t *testing.T) {
	_, err := New(Config{Path: "out.svg"})
	assert.Error(t, err)
	_, err = New(Config{Path: "out.png", Every: -1})
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Surfaced", Status(model.Snapshot{Depth: 0.05}, 2))
	assert.Equal(t, "At Target Depth", Status(model.Snapshot{Depth: 1.95}, 2))
	assert.Equal(t, "Mission in Progress", Status(model.Snapshot{Depth: 1}, 2))
	assert.Equal(t, "Emergency Surface", Status(model.Snapshot{Depth: 0.5, EmergencyMode: true}, 2))
}

func TestHeadingArrow(t *testing.T) {
	pts := headingArrow(model.Snapshot{Position: r2.Vec{X: 1, Y: 1}, Heading: 90}, 2)
	require.Len(t, pts, 5)
	assert.InDelta(t, 1, pts[1].X, 1e-9)
	assert.InDelta(t, 3, pts[1].Y, 1e-9)
	assert.InDelta(t, 2, math.Hypot(pts[1].X-pts[0].X, pts[1].Y-pts[0].Y), 1e-9)
}
