// Package mission drives a simulated AUV through a fixed three phase profile:
// dive to the target depth, transit to the goal position and surface.
//
// The Controller advances the vehicle one control step at a time. Every step
// passes the safety gate first (battery level, mission time limit); a failed
// gate or any unexpected fault triggers the emergency surface procedure and
// ends the mission in PhaseFailed. Time comes from an injected clock.Clock,
// so missions can run headless against clock.Manual and produce identical
// trajectories on every run.
//
// Observers receive a Snapshot after each step. They are presentation only:
// an observer error is logged and the mission carries on.
package mission
