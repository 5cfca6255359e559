package internaldefs

import (
	goSms "github.com/MrEthical07/goSms"
)

// CounterDef defines a public type used by goSms APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSms.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSms APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSms.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the verification engine.
var CounterDefs = []CounterDef{
	{ID: goSms.MetricRequestAccepted, Name: "gosms_request_accepted_total", Help: "Accepted code requests."},
	{ID: goSms.MetricRequestBadFormat, Name: "gosms_request_bad_format_total", Help: "Code requests rejected for invalid phone format."},
	{ID: goSms.MetricRequestVirtualNumber, Name: "gosms_request_virtual_number_total", Help: "Code requests rejected for deny-listed virtual prefixes."},
	{ID: goSms.MetricRequestCooldownLimited, Name: "gosms_request_cooldown_limited_total", Help: "Code requests rejected by the send cooldown."},
	{ID: goSms.MetricRequestHourlyLimited, Name: "gosms_request_hourly_limited_total", Help: "Code requests rejected by the hourly cap."},
	{ID: goSms.MetricSendSuccess, Name: "gosms_send_success_total", Help: "Deliveries accepted by the provider."},
	{ID: goSms.MetricSendRetry, Name: "gosms_send_retry_total", Help: "Delivery attempts retried after a transient fault."},
	{ID: goSms.MetricSendPermanentFailure, Name: "gosms_send_permanent_failure_total", Help: "Deliveries aborted on a permanent provider fault."},
	{ID: goSms.MetricSendRetriesExhausted, Name: "gosms_send_retries_exhausted_total", Help: "Deliveries failed after exhausting all retry attempts."},
	{ID: goSms.MetricVerifySuccess, Name: "gosms_verify_success_total", Help: "Successful code verifications."},
	{ID: goSms.MetricVerifyFailure, Name: "gosms_verify_failure_total", Help: "Failed code verifications (missing or mismatched code)."},
}

// HistogramDefs is an exported constant or variable used by the verification engine.
var HistogramDefs = []HistogramDef{
	{ID: goSms.MetricSendLatency, Name: "gosms_send_latency_seconds", Help: "Delivery latency histogram, including backoff time."},
}

// HistogramBounds is an exported constant or variable used by the verification engine.
var HistogramBounds = []string{
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"1",
	"5",
	"30",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the verification engine.
var HistogramBoundSuffix = []string{
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"1",
	"5",
	"30",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(nonCumulative [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(nonCumulative); i++ {
		running += nonCumulative[i]
		out[i] = running
	}
	return out
}
