// Package prometheus renders goJWT engine metrics in Prometheus text format.
//
// [NewPrometheusExporter] wraps a [goJWT.Engine] and exposes an
// [http.Handler]. Counters are named gojwt_*_total; the single histogram is
// gojwt_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate engine state.
package prometheus
