// Package telemetry wraps OpenTelemetry SDK setup for traces and
// metrics. When telemetry is disabled in configuration, no exporters
// are created and the global providers remain noop.
package telemetry
