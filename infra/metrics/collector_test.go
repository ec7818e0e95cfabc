package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/core/model"
	"github.com/kilianp07/auvsim/internal/eventbus"
)

type fakeRecorder struct {
	mu          sync.Mutex
	phases      []events.PhaseEvent
	emergencies []events.EmergencyEvent
}

func (f *fakeRecorder) RecordPhase(ev events.PhaseEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phases = append(f.phases, ev)
	return nil
}

func (f *fakeRecorder) RecordEmergency(ev events.EmergencyEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emergencies = append(f.emergencies, ev)
	return nil
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New[events.Event]()
	rec := &fakeRecorder{}
	done := StartEventCollector(context.Background(), bus, rec)

	// The collector subscribes before returning, so nothing is lost.
	bus.Publish(events.PhaseEvent{From: model.PhaseInit, To: model.PhaseDiving})
	bus.Publish(events.EmergencyEvent{Phase: model.PhaseDiving, Depth: 0.5})
	bus.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after bus close")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.phases, 1)
	assert.Equal(t, model.PhaseDiving, rec.phases[0].To)
	require.Len(t, rec.emergencies, 1)
	assert.Equal(t, 0.5, rec.emergencies[0].Depth)
}

func TestStartEventCollector_StopsOnCancel(t *testing.T) {
	bus := eventbus.New[events.Event]()
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := StartEventCollector(ctx, bus, Nop{})
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after cancel")
	}
}

func TestStartEventCollector_NoRecorders(t *testing.T) {
	done := StartEventCollector(context.Background(), eventbus.New[events.Event]())
	_, open := <-done
	assert.False(t, open)
}
