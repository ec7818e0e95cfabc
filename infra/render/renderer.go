// Package render draws mission trajectories with gonum/plot. A Renderer is a
// mission observer: it accumulates snapshots and writes a PNG holding the
// top-down track and the depth profile when it is closed.
package render

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/kilianp07/auvsim/core/model"
)

// Config controls the rendered figure.
type Config struct {
	Path        string  `json:"path"`
	FinishSize  float64 `json:"finish_size"`  // side of the finish square, metres
	TargetDepth float64 `json:"target_depth"` // drawn as a reference line, 0 hides it
	ArrowLength float64 `json:"arrow_length"`
	WidthInch   float64 `json:"width_inch"`
	HeightInch  float64 `json:"height_inch"`
	// Every re-renders the figure after this many snapshots. 0 renders on
	// Close only.
	Every int `json:"every"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Path == "" {
		c.Path = "mission.png"
	}
	if c.FinishSize <= 0 {
		c.FinishSize = 2
	}
	if c.ArrowLength <= 0 {
		c.ArrowLength = 1
	}
	if c.WidthInch <= 0 {
		c.WidthInch = 12
	}
	if c.HeightInch <= 0 {
		c.HeightInch = 6
	}
}

// Validate checks the output path and frame rate.
func (c Config) Validate() error {
	if c.Every < 0 {
		return fmt.Errorf("render: every must be >= 0")
	}
	switch filepath.Ext(c.Path) {
	case ".png":
	default:
		return fmt.Errorf("render: unsupported output %q, want .png", c.Path)
	}
	return nil
}

type sample struct {
	elapsed float64
	depth   float64
}

// Renderer accumulates snapshots and draws them.
type Renderer struct {
	cfg Config

	mu      sync.Mutex
	last    *model.Snapshot
	profile []sample
	seen    int
}

// New returns a Renderer writing to cfg.Path.
func New(cfg Config) (*Renderer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg}, nil
}

// Observe records snap and re-renders when the configured frame count is
// reached.
func (r *Renderer) Observe(_ context.Context, snap model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = &snap
	r.profile = append(r.profile, sample{elapsed: snap.Elapsed.Seconds(), depth: snap.Depth})
	r.seen++
	if r.cfg.Every > 0 && r.seen%r.cfg.Every == 0 {
		return r.renderLocked()
	}
	return nil
}

// Close writes the final figure. It is a no-op when nothing was observed.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	return r.renderLocked()
}

// Status is the caption of the trajectory plot.
func Status(snap model.Snapshot, targetDepth float64) string {
	switch {
	case snap.EmergencyMode:
		return "Emergency Surface"
	case snap.Depth < 0.1:
		return "Surfaced"
	case targetDepth > 0 && math.Abs(snap.Depth-targetDepth) < 0.1:
		return "At Target Depth"
	default:
		return "Mission in Progress"
	}
}

func (r *Renderer) renderLocked() error {
	track, err := r.trackPlot(*r.last)
	if err != nil {
		return err
	}
	depth, err := r.depthPlot()
	if err != nil {
		return err
	}

	img := vgimg.New(vg.Length(r.cfg.WidthInch)*vg.Inch, vg.Length(r.cfg.HeightInch)*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2, PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2}
	canvases := plot.Align([][]*plot.Plot{{track, depth}}, tiles, dc)
	track.Draw(canvases[0][0])
	depth.Draw(canvases[0][1])

	if dir := filepath.Dir(r.cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	f, err := os.Create(r.cfg.Path)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", r.cfg.Path, err)
	}
	return f.Close()
}

func (r *Renderer) trackPlot(snap model.Snapshot) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("AUV Mission Status: %s (%s)", Status(snap, r.cfg.TargetDepth), snap.Phase)
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(plotter.NewGrid())

	half := r.cfg.FinishSize / 2
	g := snap.Goal
	finish, err := plotter.NewPolygon(plotter.XYs{
		{X: g.X - half, Y: g.Y - half},
		{X: g.X + half, Y: g.Y - half},
		{X: g.X + half, Y: g.Y + half},
		{X: g.X - half, Y: g.Y + half},
	})
	if err != nil {
		return nil, err
	}
	finish.Color = color.RGBA{G: 160, A: 60}
	finish.LineStyle.Color = color.RGBA{G: 120, A: 255}
	p.Add(finish)
	p.Legend.Add("finish", finish)

	pts := make(plotter.XYs, 0, len(snap.PositionHistory)+1)
	for _, v := range snap.PositionHistory {
		pts = append(pts, plotter.XY{X: v.X, Y: v.Y})
	}
	pts = append(pts, plotter.XY{X: snap.Position.X, Y: snap.Position.Y})
	path, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	path.Color = color.RGBA{B: 200, A: 255}
	path.Width = vg.Points(1.5)
	p.Add(path)
	p.Legend.Add("path", path)

	arrow, err := plotter.NewLine(headingArrow(snap, r.cfg.ArrowLength))
	if err != nil {
		return nil, err
	}
	arrow.Color = color.RGBA{R: 200, A: 255}
	arrow.Width = vg.Points(2)
	p.Add(arrow)
	p.Legend.Add("heading", arrow)

	p.Legend.Top = true
	p.Legend.Left = true

	// keep the finish area and a margin in view
	p.X.Min = math.Min(p.X.Min, g.X-half-1)
	p.X.Max = math.Max(p.X.Max, g.X+half+1)
	p.Y.Min = math.Min(p.Y.Min, g.Y-half-1)
	p.Y.Max = math.Max(p.Y.Max, g.Y+half+1)
	return p, nil
}

func (r *Renderer) depthPlot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Depth Profile"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Depth (m)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(r.profile))
	for i, s := range r.profile {
		pts[i] = plotter.XY{X: s.elapsed, Y: -s.depth}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{B: 200, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)

	if r.cfg.TargetDepth > 0 {
		target := r.cfg.TargetDepth
		ref := plotter.NewFunction(func(float64) float64 { return -target })
		ref.Color = color.RGBA{R: 200, G: 120, A: 255}
		ref.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(ref)
		p.Legend.Add("target", ref)
		p.Y.Min = math.Min(p.Y.Min, -target-0.5)
	}
	p.Y.Max = math.Max(p.Y.Max, 0.5)
	return p, nil
}

// headingArrow returns a polyline drawing an arrow of length l from the
// vehicle position along its heading.
func headingArrow(snap model.Snapshot, l float64) plotter.XYs {
	rad := snap.Heading * math.Pi / 180
	x, y := snap.Position.X, snap.Position.Y
	tx, ty := x+l*math.Cos(rad), y+l*math.Sin(rad)
	wing := l * 0.3
	left := rad + math.Pi*5/6
	right := rad - math.Pi*5/6
	return plotter.XYs{
		{X: x, Y: y},
		{X: tx, Y: ty},
		{X: tx + wing*math.Cos(left), Y: ty + wing*math.Sin(left)},
		{X: tx, Y: ty},
		{X: tx + wing*math.Cos(right), Y: ty + wing*math.Sin(right)},
	}
}
