// Package infra contains technical adapters such as the MQTT telemetry
// publisher, metrics exporters and the trajectory renderer. These packages
// should depend only on the interfaces defined in the core packages.
package infra
