package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kilianp07/auvsim/config"
	"github.com/kilianp07/auvsim/core/battery"
	"github.com/kilianp07/auvsim/core/clock"
	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/core/factory"
	"github.com/kilianp07/auvsim/core/mission"
	"github.com/kilianp07/auvsim/infra/logger"
	"github.com/kilianp07/auvsim/infra/metrics"
	"github.com/kilianp07/auvsim/infra/mqtt"
	"github.com/kilianp07/auvsim/infra/observers"
	"github.com/kilianp07/auvsim/internal/eventbus"
)

// Service wires a mission controller to its observers, event bus and
// metrics endpoint.
type Service struct {
	Controller *mission.Controller

	bus         *eventbus.Bus[events.Event]
	observers   []mission.Observer
	recorders   []metrics.EventRecorder
	promEnabled bool
	promPort    string
	sensors     config.SensorsConfig
	log         logger.Logger
	stopProm    context.CancelFunc
}

// Option customises a Service.
type Option func(*options)

type options struct {
	clock clock.Clock
}

// WithClock overrides the clock chosen from mission.realtime.
func WithClock(c clock.Clock) Option { return func(o *options) { o.clock = c } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("service")

	drain, err := battery.New(cfg.Battery)
	if err != nil {
		return nil, fmt.Errorf("battery: %w", err)
	}
	obs, err := buildObservers(cfg)
	if err != nil {
		return nil, err
	}

	if o.clock == nil {
		if cfg.Mission.Realtime {
			o.clock = clock.Real{}
		} else {
			o.clock = clock.NewManual(time.Now())
		}
	}

	bus := eventbus.New[events.Event]()
	var recorders []metrics.EventRecorder
	wrapped := make([]mission.Observer, len(obs))
	for i, ob := range obs {
		if r, ok := ob.(metrics.EventRecorder); ok {
			recorders = append(recorders, r)
		}
		// Closing is left to the service so events still in flight on the
		// bus reach recorders before their connections are released.
		wrapped[i] = keepOpen{ob}
	}

	ctlOpts := []mission.Option{
		mission.WithClock(o.clock),
		mission.WithGoal(cfg.Goal.Provider()),
		mission.WithBattery(drain),
		mission.WithObservers(wrapped...),
		mission.WithEvents(bus),
		mission.WithLogger(logger.New("controller")),
	}
	if cfg.Mission.ID != "" {
		ctlOpts = append(ctlOpts, mission.WithMissionID(cfg.Mission.ID))
	}
	ctl, err := mission.New(cfg.Mission.Mission(), ctlOpts...)
	if err != nil {
		_ = mission.MultiObserver(obs).Close()
		bus.Close()
		return nil, fmt.Errorf("mission controller: %w", err)
	}

	return &Service{
		Controller:  ctl,
		bus:         bus,
		observers:   obs,
		recorders:   recorders,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
		sensors:     cfg.Sensors,
		log:         logg,
	}, nil
}

func buildObservers(cfg *config.Config) ([]mission.Observer, error) {
	obs, err := observers.NewAll(cfg.Observers)
	if err != nil {
		return nil, err
	}
	fail := func(err error) ([]mission.Observer, error) {
		_ = mission.MultiObserver(obs).Close()
		return nil, err
	}
	if cfg.Metrics.PrometheusEnabled && !hasObserver(cfg.Observers, "prometheus") {
		prom, err := metrics.NewPromObserver(nil)
		if err != nil {
			return fail(fmt.Errorf("prom observer: %w", err))
		}
		obs = append(obs, prom)
	}
	if cfg.Metrics.InfluxEnabled {
		obs = append(obs, metrics.NewInfluxObserverWithFallback(cfg.Metrics.Influx()))
	}
	if cfg.MQTT != nil {
		pub, err := mqtt.NewTelemetryPublisher(*cfg.MQTT)
		if err != nil {
			return fail(fmt.Errorf("mqtt telemetry: %w", err))
		}
		obs = append(obs, pub)
	}
	return obs, nil
}

// hasObserver reports whether typ is already listed in the observers
// section. Collectors are shared, so a second instance would count twice.
func hasObserver(cfgs []factory.ModuleConfig, typ string) bool {
	for _, c := range cfgs {
		if c.Type == typ {
			return true
		}
	}
	return false
}

// Run executes the mission and waits until every event has been recorded.
func (s *Service) Run(ctx context.Context) mission.Result {
	if s.promEnabled && s.stopProm == nil {
		promCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.stopProm = cancel
		metrics.StartPromServer(promCtx, s.promPort, nil)
	}
	// The collector stops when the bus is closed, not on cancellation, so
	// the emergency events of an aborted run are still recorded.
	done := metrics.StartEventCollector(context.WithoutCancel(ctx), s.bus, s.recorders...)

	s.log.Infof("mission %s starting (sensors: gps %.0f Hz, depth %.0f Hz, imu %.0f Hz)",
		s.Controller.MissionID(), s.sensors.GPSHz, s.sensors.DepthHz, s.sensors.IMUHz)
	res := s.Controller.Execute(ctx)
	s.bus.Close()
	<-done

	if !res.Success() {
		s.log.Errorf("mission %s failed: %v", res.MissionID, res.Err)
	}
	return res
}

// Close releases observers and stops the metrics endpoint.
func (s *Service) Close() error {
	s.bus.Close()
	if s.stopProm != nil {
		s.stopProm()
	}
	return mission.MultiObserver(s.observers).Close()
}

type keepOpen struct{ mission.Observer }

var _ io.Closer = (*Service)(nil)
