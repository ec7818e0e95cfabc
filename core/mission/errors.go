package mission

import (
	"errors"
	"fmt"

	"github.com/kilianp07/auvsim/core/model"
)

var (
	// ErrSafetyViolation is matched by every *SafetyViolation.
	ErrSafetyViolation = errors.New("safety violation")
	// ErrUnexpectedFault is matched by every *UnexpectedFault.
	ErrUnexpectedFault = errors.New("unexpected fault")
	// ErrAborted marks a mission stopped by context cancellation.
	ErrAborted = errors.New("mission aborted")
)

// Reason identifies the safety check that failed.
type Reason string

const (
	ReasonBatteryLow  Reason = "battery_low"
	ReasonMissionTime Reason = "mission_time"
)

// SafetyViolation is returned when the safety gate rejects a control step.
type SafetyViolation struct {
	Reason Reason
	Value  float64 // observed value (percent or seconds)
	Limit  float64
}

func (e *SafetyViolation) Error() string {
	switch e.Reason {
	case ReasonBatteryLow:
		return fmt.Sprintf("low battery: %.1f%% < %.1f%%", e.Value, e.Limit)
	case ReasonMissionTime:
		return fmt.Sprintf("mission time exceeded: %.1fs > %.1fs", e.Value, e.Limit)
	default:
		return fmt.Sprintf("safety violation %s", e.Reason)
	}
}

func (e *SafetyViolation) Is(target error) bool { return target == ErrSafetyViolation }

// UnexpectedFault wraps any failure during a phase that is not a safety
// violation: a recovered panic, a goal provider error or a cancellation.
type UnexpectedFault struct {
	Phase model.Phase
	Err   error
}

func (e *UnexpectedFault) Error() string {
	return fmt.Sprintf("unexpected fault during %s: %v", e.Phase, e.Err)
}

func (e *UnexpectedFault) Unwrap() error { return e.Err }

func (e *UnexpectedFault) Is(target error) bool { return target == ErrUnexpectedFault }
