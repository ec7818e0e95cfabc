package mission

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/kilianp07/auvsim/core/battery"
	"github.com/kilianp07/auvsim/core/clock"
	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/core/logger"
	"github.com/kilianp07/auvsim/core/model"
)

// Controller runs a single vehicle through the mission profile. It is not
// safe for concurrent use; run one Controller per mission.
type Controller struct {
	cfg       Config
	clock     clock.Clock
	goal      GoalProvider
	battery   battery.Model
	observers MultiObserver
	events    events.Publisher
	log       logger.Logger
	missionID string

	state  model.VehicleState
	phase  model.Phase
	target r2.Vec
	steps  int
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock sets the time source. Defaults to the wall clock.
func WithClock(c clock.Clock) Option { return func(ctl *Controller) { ctl.clock = c } }

// WithGoal sets the transit goal provider. Defaults to DefaultGoal.
func WithGoal(g GoalProvider) Option { return func(ctl *Controller) { ctl.goal = g } }

// WithBattery sets the drain model. Defaults to battery.None.
func WithBattery(m battery.Model) Option { return func(ctl *Controller) { ctl.battery = m } }

// WithObservers appends step observers.
func WithObservers(obs ...Observer) Option {
	return func(ctl *Controller) {
		for _, o := range obs {
			if o != nil {
				ctl.observers = append(ctl.observers, o)
			}
		}
	}
}

// WithEvents sets the publisher receiving phase and emergency events.
func WithEvents(p events.Publisher) Option { return func(ctl *Controller) { ctl.events = p } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(ctl *Controller) { ctl.log = l } }

// WithMissionID overrides the generated mission identifier.
func WithMissionID(id string) Option { return func(ctl *Controller) { ctl.missionID = id } }

// New validates cfg and returns a Controller in PhaseInit.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mission config: %w", err)
	}
	c := &Controller{
		cfg:     cfg,
		clock:   clock.Real{},
		goal:    DefaultGoal,
		battery: battery.None{},
		log:     logger.Nop{},
		phase:   model.PhaseInit,
	}
	for _, o := range opts {
		o(c)
	}
	if c.missionID == "" {
		c.missionID = uuid.NewString()
	}
	c.state.Reset(c.clock.Now())
	return c, nil
}

// MissionID returns the mission identifier.
func (c *Controller) MissionID() string { return c.missionID }

// Phase returns the current phase.
func (c *Controller) Phase() model.Phase { return c.phase }

// Config returns the mission parameters.
func (c *Controller) Config() Config { return c.cfg }

// Snapshot returns a detached copy of the current state.
func (c *Controller) Snapshot() model.Snapshot {
	return c.state.Snapshot(c.missionID, c.phase, c.target, c.clock.Now())
}

// Initialize resets the vehicle to the origin and starts the mission clock.
func (c *Controller) Initialize() {
	now := c.clock.Now()
	c.state.Reset(now)
	c.steps = 0
	c.target = r2.Vec{}
	c.setPhase(model.PhaseInit)
	c.log.Infof("mission %s initialised at %v", c.missionID, c.state.Position)
}

// CheckSafety evaluates the safety gate at the current time. It does not
// change any state.
func (c *Controller) CheckSafety() error {
	return c.checkSafety(c.clock.Now())
}

func (c *Controller) checkSafety(now time.Time) error {
	if c.state.BatteryLevel < c.cfg.BatteryLowThreshold {
		return &SafetyViolation{Reason: ReasonBatteryLow, Value: c.state.BatteryLevel, Limit: c.cfg.BatteryLowThreshold}
	}
	if elapsed := c.state.MissionElapsed(now); elapsed > c.cfg.MaxMissionTime {
		return &SafetyViolation{Reason: ReasonMissionTime, Value: elapsed.Seconds(), Limit: c.cfg.MaxMissionTime.Seconds()}
	}
	return nil
}

// EmergencySurface forces the vehicle to the emergency depth and fails the
// mission. Only the first call has an effect.
func (c *Controller) EmergencySurface(cause error) {
	if c.state.EmergencyMode {
		return
	}
	aborted := c.phase
	c.state.EmergencyMode = true
	c.state.Depth = c.cfg.EmergencySurfaceDepth
	c.log.Errorf("emergency surface during %s: %v (depth now %.2fm)", aborted, cause, c.state.Depth)
	c.publish(events.EmergencyEvent{
		MissionID: c.missionID,
		Phase:     aborted,
		Depth:     c.state.Depth,
		Err:       cause,
		Time:      c.clock.Now(),
	})
	c.setPhase(model.PhaseFailed)
}

// StepDepth runs one vertical control step toward target. The depth moves by
// at most VerticalSpeed*elapsed and never passes target.
func (c *Controller) StepDepth(target float64) error {
	now := c.clock.Now()
	if err := c.checkSafety(now); err != nil {
		c.EmergencySurface(err)
		return err
	}
	elapsed := c.state.AdvanceClock(now)
	c.steps++

	diff := target - c.state.Depth
	step := math.Min(c.cfg.VerticalSpeed*elapsed.Seconds(), math.Abs(diff))
	if diff < 0 {
		step = -step
	}
	c.state.Depth = math.Max(0, c.state.Depth+step)
	c.drain(elapsed, battery.Effort{Vertical: step})

	c.log.Debugw("depth step", map[string]any{
		"depth":  c.state.Depth,
		"target": target,
		"dt":     elapsed.Seconds(),
	})
	return nil
}

// StepPosition runs one horizontal control step toward target. The heading
// turns by at most HeadingTolerance, then the vehicle advances along the new
// heading by at most Speed*elapsed without passing the target.
func (c *Controller) StepPosition(target r2.Vec) error {
	now := c.clock.Now()
	if err := c.checkSafety(now); err != nil {
		c.EmergencySurface(err)
		return err
	}
	elapsed := c.state.AdvanceClock(now)
	c.steps++

	dist := c.state.DistanceTo(target)
	bearing := Bearing(c.state.Position, target)
	headingErr := NormalizeAngle(bearing - c.state.Heading)
	tol := c.cfg.HeadingTolerance
	if math.Abs(headingErr) > tol {
		c.state.Heading = NormalizeHeading(c.state.Heading + math.Copysign(tol, headingErr))
	}

	var moved float64
	if dist > c.cfg.PositionTolerance {
		moved = math.Min(c.cfg.Speed*elapsed.Seconds(), dist)
		c.state.Position = r2.Add(c.state.Position, r2.Scale(moved, unitVector(c.state.Heading)))
		c.state.RecordPosition()
	}
	c.drain(elapsed, battery.Effort{Horizontal: moved})

	c.log.Debugw("position step", map[string]any{
		"distance":       dist,
		"heading":        c.state.Heading,
		"target_heading": bearing,
		"moved":          moved,
		"x":              c.state.Position.X,
		"y":              c.state.Position.Y,
	})
	return nil
}

func (c *Controller) drain(elapsed time.Duration, effort battery.Effort) {
	c.state.BatteryLevel = battery.Apply(c.battery, c.state.BatteryLevel, elapsed, effort)
}

// Result summarises a finished mission.
type Result struct {
	MissionID string
	Phase     model.Phase // PhaseCompleted or PhaseFailed
	Err       error
	Final     model.Snapshot
	Steps     int
	Duration  time.Duration
}

// Success reports whether every phase finished.
func (r Result) Success() bool { return r.Phase == model.PhaseCompleted }

// Execute runs INIT, DIVING, TRANSIT and SURFACING in order. Failures of any
// kind end in PhaseFailed after the emergency surface procedure; nothing
// escapes Execute except through the returned Result.
func (c *Controller) Execute(ctx context.Context) (res Result) {
	c.log.Infof("starting mission %s", c.missionID)
	defer func() {
		if r := recover(); r != nil {
			res = c.fail(ctx, &UnexpectedFault{Phase: c.phase, Err: fmt.Errorf("panic: %v", r)})
		}
		if err := c.observers.Close(); err != nil {
			c.log.Warnf("closing observers: %v", err)
		}
	}()

	c.Initialize()

	if err := c.runPhase(ctx, model.PhaseDiving, c.atDepth(c.cfg.TargetDepth), func() error {
		return c.StepDepth(c.cfg.TargetDepth)
	}); err != nil {
		return c.fail(ctx, err)
	}

	c.setPhase(model.PhaseTransit)
	goal, err := c.goal.Goal(ctx)
	if err != nil {
		return c.fail(ctx, &UnexpectedFault{Phase: model.PhaseTransit, Err: fmt.Errorf("goal: %w", err)})
	}
	c.target = goal
	c.log.Infof("navigating to finish area at (%.2f, %.2f)", goal.X, goal.Y)
	if err := c.runPhase(ctx, model.PhaseTransit, func() bool {
		return c.state.DistanceTo(goal) <= c.cfg.PositionTolerance
	}, func() error {
		return c.StepPosition(goal)
	}); err != nil {
		return c.fail(ctx, err)
	}

	if err := c.runPhase(ctx, model.PhaseSurfacing, c.atDepth(0), func() error {
		return c.StepDepth(0)
	}); err != nil {
		return c.fail(ctx, err)
	}

	c.setPhase(model.PhaseCompleted)
	c.notify(ctx)
	res = c.result(nil)
	c.log.Infof("mission %s completed in %.2f seconds after %d steps", c.missionID, res.Duration.Seconds(), res.Steps)
	return res
}

func (c *Controller) atDepth(target float64) func() bool {
	return func() bool { return math.Abs(c.state.Depth-target) <= c.cfg.DepthTolerance }
}

// runPhase steps until reached holds. Cancellation is checked once per step.
func (c *Controller) runPhase(ctx context.Context, phase model.Phase, reached func() bool, step func() error) error {
	c.setPhase(phase)
	for !reached() {
		if err := ctx.Err(); err != nil {
			return &UnexpectedFault{Phase: phase, Err: fmt.Errorf("%w: %w", ErrAborted, err)}
		}
		if err := step(); err != nil {
			return err
		}
		c.notify(ctx)
		if err := c.clock.Sleep(ctx, c.cfg.StepInterval); err != nil {
			return &UnexpectedFault{Phase: phase, Err: fmt.Errorf("%w: %w", ErrAborted, err)}
		}
	}
	return nil
}

func (c *Controller) fail(ctx context.Context, err error) Result {
	if !errors.Is(err, ErrSafetyViolation) && !errors.Is(err, ErrUnexpectedFault) {
		err = &UnexpectedFault{Phase: c.phase, Err: err}
	}
	c.EmergencySurface(err)
	c.setPhase(model.PhaseFailed)
	c.notify(context.WithoutCancel(ctx))
	c.log.Errorf("mission %s failed: %v", c.missionID, err)
	return c.result(err)
}

func (c *Controller) result(err error) Result {
	now := c.clock.Now()
	return Result{
		MissionID: c.missionID,
		Phase:     c.phase,
		Err:       err,
		Final:     c.state.Snapshot(c.missionID, c.phase, c.target, now),
		Steps:     c.steps,
		Duration:  c.state.MissionElapsed(now),
	}
}

func (c *Controller) setPhase(p model.Phase) {
	if c.phase == p {
		return
	}
	from := c.phase
	c.phase = p
	c.log.Infof("phase %s -> %s", from, p)
	c.publish(events.PhaseEvent{MissionID: c.missionID, From: from, To: p, Time: c.clock.Now()})
}

func (c *Controller) publish(ev events.Event) {
	if c.events != nil {
		c.events.Publish(ev)
	}
}

// notify hands a snapshot to the observers. Observer failures are logged
// and never abort the mission.
func (c *Controller) notify(ctx context.Context) {
	if len(c.observers) == 0 {
		return
	}
	snap := c.Snapshot()
	defer func() {
		if r := recover(); r != nil {
			c.log.Warnf("observer panic: %v", r)
		}
	}()
	if err := c.observers.Observe(ctx, snap); err != nil {
		c.log.Warnf("observer: %v", err)
	}
}
