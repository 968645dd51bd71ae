// Package otel publishes goJWT engine metrics through an OpenTelemetry Meter.
//
// [NewOTelExporter] registers an Int64ObservableCounter per engine counter
// and an Int64ObservableGauge per histogram bucket. A single callback reads
// [goJWT.Engine.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
