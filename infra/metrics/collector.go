package metrics

import (
	"context"

	"github.com/kilianp07/auvsim/core/events"
	"github.com/kilianp07/auvsim/infra/logger"
)

// Subscriber is the subscription side of the event bus.
type Subscriber interface {
	Subscribe() <-chan events.Event
	Unsubscribe(<-chan events.Event)
}

// StartEventCollector subscribes to the bus and forwards mission events to
// every recorder. The returned channel is closed once the collector has
// stopped, which happens when ctx is cancelled or the bus is closed.
func StartEventCollector(ctx context.Context, bus Subscriber, recorders ...EventRecorder) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || len(recorders) == 0 {
		close(done)
		return done
	}
	log := logger.New("event-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				for _, r := range recorders {
					if err := Record(r, ev); err != nil {
						log.Warnf("record %s event: %v", ev.MissionEvent(), err)
					}
				}
			}
		}
	}()
	return done
}

// Record forwards ev to the matching method of r. Unknown events are ignored.
func Record(r EventRecorder, ev events.Event) error {
	switch e := ev.(type) {
	case events.PhaseEvent:
		return r.RecordPhase(e)
	case events.EmergencyEvent:
		return r.RecordEmergency(e)
	}
	return nil
}
