// Package prometheus provides Prometheus collectors for goSms metrics.
//
// [NewPrometheusExporter] accepts a [goSms.Engine] and exposes an [http.Handler]
// that renders all goSms counters and histograms in Prometheus text exposition format.
// Counter names are prefixed gosms_*_total; the single histogram is
// gosms_send_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
