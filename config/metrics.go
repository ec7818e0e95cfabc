package config

import (
	"fmt"

	"github.com/kilianp07/auvsim/infra/metrics"
)

// MetricsConfig controls the Prometheus endpoint and the InfluxDB writer.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":2112"
	}
}

func (c MetricsConfig) Validate() error {
	if c.InfluxEnabled && (c.InfluxURL == "" || c.InfluxBucket == "") {
		return fmt.Errorf("influx_url and influx_bucket are required when influx is enabled")
	}
	return nil
}

// Influx returns the InfluxDB connection settings.
func (c MetricsConfig) Influx() metrics.InfluxConfig {
	return metrics.InfluxConfig{URL: c.InfluxURL, Token: c.InfluxToken, Org: c.InfluxOrg, Bucket: c.InfluxBucket}
}
