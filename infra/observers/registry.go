// Package observers registers the builtin mission observers so they can be
// built from configuration.
package observers

import (
	"fmt"

	"github.com/kilianp07/auvsim/core/factory"
	"github.com/kilianp07/auvsim/core/mission"
	"github.com/kilianp07/auvsim/infra/metrics"
	"github.com/kilianp07/auvsim/infra/mqtt"
	"github.com/kilianp07/auvsim/infra/render"
)

var registry = factory.NewRegistry[mission.Observer]()

// Register adds an observer factory under name.
func Register(name string, f factory.Factory[mission.Observer]) error {
	return registry.Register(name, f)
}

// Names lists the registered observer types.
func Names() []string { return registry.Names() }

// New builds one observer from its module configuration.
func New(cfg factory.ModuleConfig) (mission.Observer, error) {
	return registry.Create(cfg)
}

// NewAll builds every configured observer. Observers already built are
// closed when a later one fails.
func NewAll(cfgs []factory.ModuleConfig) ([]mission.Observer, error) {
	out := make([]mission.Observer, 0, len(cfgs))
	for i, c := range cfgs {
		o, err := New(c)
		if err != nil {
			_ = mission.MultiObserver(out).Close()
			return nil, fmt.Errorf("observer %d: %w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

type influxSettings struct {
	URL             string `json:"url"`
	Token           string `json:"token"`
	Org             string `json:"org"`
	Bucket          string `json:"bucket"`
	SkipHealthCheck bool   `json:"skip_health_check"`
}

func init() {
	_ = Register("log", func(conf map[string]any) (mission.Observer, error) {
		var cfg LogConfig
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		return NewLogObserver(cfg), nil
	})
	_ = Register("prometheus", func(map[string]any) (mission.Observer, error) {
		return metrics.NewPromObserver(nil)
	})
	_ = Register("influx", func(conf map[string]any) (mission.Observer, error) {
		var cfg influxSettings
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		if cfg.URL == "" {
			return nil, fmt.Errorf("url is required")
		}
		ic := metrics.InfluxConfig{URL: cfg.URL, Token: cfg.Token, Org: cfg.Org, Bucket: cfg.Bucket}
		if cfg.SkipHealthCheck {
			return metrics.NewInfluxObserver(ic), nil
		}
		return metrics.NewInfluxObserverWithFallback(ic), nil
	})
	_ = Register("mqtt", func(conf map[string]any) (mission.Observer, error) {
		var cfg mqtt.Config
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		return mqtt.NewTelemetryPublisher(cfg)
	})
	_ = Register("render", func(conf map[string]any) (mission.Observer, error) {
		var cfg render.Config
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		return render.New(cfg)
	})
}
