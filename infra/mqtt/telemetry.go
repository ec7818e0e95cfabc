package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/core/model"
	"github.com/kilianp07/auvsim/infra/logger"
)

// StatePayload is the JSON body published on the state topic.
type StatePayload struct {
	MissionID string  `json:"mission_id"`
	Phase     string  `json:"phase"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Depth     float64 `json:"depth"`
	Heading   float64 `json:"heading"`
	Battery   float64 `json:"battery"`
	Emergency bool    `json:"emergency"`
	GoalX     float64 `json:"goal_x"`
	GoalY     float64 `json:"goal_y"`
	ElapsedS  float64 `json:"elapsed_s"`
	Timestamp int64   `json:"timestamp"`
}

// EventPayload is the JSON body published on the event topic.
type EventPayload struct {
	MissionID string  `json:"mission_id"`
	Kind      string  `json:"kind"`
	From      string  `json:"from,omitempty"`
	To        string  `json:"to,omitempty"`
	Phase     string  `json:"phase,omitempty"`
	Depth     float64 `json:"depth,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// TelemetryPublisher is a mission observer that mirrors every snapshot to
// MQTT. It also records bus events.
type TelemetryPublisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewTelemetryPublisher connects to the broker described by cfg.
func NewTelemetryPublisher(cfg Config) (*TelemetryPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_telemetry")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	return &TelemetryPublisher{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// StateTopic returns the topic snapshots of missionID are published to.
func (p *TelemetryPublisher) StateTopic(missionID string) string {
	return fmt.Sprintf("%s/%s/state", p.prefix, missionID)
}

// EventTopic returns the topic events of missionID are published to.
func (p *TelemetryPublisher) EventTopic(missionID string) string {
	return fmt.Sprintf("%s/%s/event", p.prefix, missionID)
}

// Observe publishes snap on the state topic.
func (p *TelemetryPublisher) Observe(ctx context.Context, snap model.Snapshot) error {
	return p.publish(ctx, p.StateTopic(snap.MissionID), StatePayload{
		MissionID: snap.MissionID,
		Phase:     snap.Phase.String(),
		X:         snap.Position.X,
		Y:         snap.Position.Y,
		Depth:     snap.Depth,
		Heading:   snap.Heading,
		Battery:   snap.BatteryLevel,
		Emergency: snap.EmergencyMode,
		GoalX:     snap.Goal.X,
		GoalY:     snap.Goal.Y,
		ElapsedS:  snap.Elapsed.Seconds(),
		Timestamp: snap.Time.UnixMilli(),
	})
}

// RecordPhase publishes a phase transition on the event topic.
func (p *TelemetryPublisher) RecordPhase(ev events.PhaseEvent) error {
	return p.publish(context.Background(), p.EventTopic(ev.MissionID), EventPayload{
		MissionID: ev.MissionID,
		Kind:      ev.MissionEvent(),
		From:      ev.From.String(),
		To:        ev.To.String(),
		Timestamp: ev.Time.UnixMilli(),
	})
}

// RecordEmergency publishes an emergency surface on the event topic.
func (p *TelemetryPublisher) RecordEmergency(ev events.EmergencyEvent) error {
	payload := EventPayload{
		MissionID: ev.MissionID,
		Kind:      ev.MissionEvent(),
		Phase:     ev.Phase.String(),
		Depth:     ev.Depth,
		Timestamp: ev.Time.UnixMilli(),
	}
	if ev.Err != nil {
		payload.Reason = ev.Err.Error()
	}
	return p.publish(context.Background(), p.EventTopic(ev.MissionID), payload)
}

func (p *TelemetryPublisher) publish(ctx context.Context, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		p.log.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt == p.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close disconnects from the broker.
func (p *TelemetryPublisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}
