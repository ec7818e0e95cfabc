package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/core/mission"
	"github.com/kilianp07/auvsim/core/model"
	"github.com/kilianp07/auvsim/infra/logger"
)

// InfluxObserver writes mission snapshots to an InfluxDB bucket.
type InfluxObserver struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// InfluxConfig holds the connection parameters of an InfluxObserver.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// NewInfluxObserver creates an observer for the given InfluxDB endpoint.
func NewInfluxObserver(cfg InfluxConfig) *InfluxObserver {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxObserver{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-observer"),
	}
}

// InfluxSink is what NewInfluxObserverWithFallback returns: an observer that
// can also record bus events.
type InfluxSink interface {
	mission.Observer
	EventRecorder
}

// NewInfluxObserverWithFallback pings the InfluxDB instance and returns a
// Nop when the health check fails.
func NewInfluxObserverWithFallback(cfg InfluxConfig) InfluxSink {
	o := NewInfluxObserver(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := o.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			o.log.Errorf("influx health check error: %v", err)
		} else {
			o.log.Errorf("influx health status: %s", health.Status)
		}
		o.client.Close()
		return Nop{}
	}
	return o
}

// Observe writes one auv_state point.
func (o *InfluxObserver) Observe(ctx context.Context, snap model.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("auv_state").
		AddTag("mission_id", snap.MissionID).
		AddTag("phase", snap.Phase.String()).
		AddTag("emergency", strconv.FormatBool(snap.EmergencyMode)).
		AddField("x", round3(snap.Position.X)).
		AddField("y", round3(snap.Position.Y)).
		AddField("depth", round3(snap.Depth)).
		AddField("heading", round3(snap.Heading)).
		AddField("battery", round3(snap.BatteryLevel)).
		AddField("goal_distance", round3(goalDistance(snap))).
		AddField("elapsed_s", round3(snap.Elapsed.Seconds())).
		SetTime(snap.Time)
	return o.writeAPI.WritePoint(ctx, p)
}

// RecordPhase writes an auv_phase point.
func (o *InfluxObserver) RecordPhase(ev events.PhaseEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("auv_phase").
		AddTag("mission_id", ev.MissionID).
		AddTag("from", ev.From.String()).
		AddTag("to", ev.To.String()).
		AddField("ordinal", int64(ev.To)).
		SetTime(ev.Time)
	return o.writeAPI.WritePoint(ctx, p)
}

// RecordEmergency writes an auv_emergency point.
func (o *InfluxObserver) RecordEmergency(ev events.EmergencyEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reason := ""
	if ev.Err != nil {
		reason = ev.Err.Error()
	}
	p := write.NewPointWithMeasurement("auv_emergency").
		AddTag("mission_id", ev.MissionID).
		AddTag("phase", ev.Phase.String()).
		AddField("depth", round3(ev.Depth)).
		AddField("reason", reason).
		SetTime(ev.Time)
	return o.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (o *InfluxObserver) Close() error {
	o.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
