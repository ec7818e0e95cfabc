// Package events defines the mission events emitted on the event bus.
//
// Available event types:
//   - PhaseEvent: the mission entered a new phase
//   - EmergencyEvent: the emergency surface procedure ran
package events
