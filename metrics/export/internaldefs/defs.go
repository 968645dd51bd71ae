package internaldefs

import (
	"slices"

	goJWT "github.com/MrEthical07/goJWT"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   goJWT.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   goJWT.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter in export order.
var CounterDefs = []CounterDef{
	{ID: goJWT.MetricIssueSuccess, Name: "gojwt_issue_success_total", Help: "Tokens issued."},
	{ID: goJWT.MetricIssueFailure, Name: "gojwt_issue_failure_total", Help: "Failed issue attempts."},
	{ID: goJWT.MetricVerifySuccess, Name: "gojwt_verify_success_total", Help: "Tokens verified."},
	{ID: goJWT.MetricVerifyFailure, Name: "gojwt_verify_failure_total", Help: "Tokens rejected as missing, malformed or invalid."},
	{ID: goJWT.MetricVerifyExpired, Name: "gojwt_verify_expired_total", Help: "Tokens rejected as expired."},
	{ID: goJWT.MetricVerifyBlacklisted, Name: "gojwt_verify_blacklisted_total", Help: "Tokens rejected as revoked."},
	{ID: goJWT.MetricInvalidateSuccess, Name: "gojwt_invalidate_success_total", Help: "Tokens revoked until expiry."},
	{ID: goJWT.MetricInvalidateForever, Name: "gojwt_invalidate_forever_total", Help: "Tokens revoked permanently."},
	{ID: goJWT.MetricInvalidateFailure, Name: "gojwt_invalidate_failure_total", Help: "Failed revocation attempts."},
}

// HistogramDefs lists every histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: goJWT.MetricVerifyLatency, Name: "gojwt_verify_latency_seconds", Help: "Verify latency histogram."},
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const AuditDroppedName = "gojwt_audit_dropped_total"

// AuditEventTypeLabel labels AuditDroppedName series.
const AuditEventTypeLabel = "event_type"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Audit events dropped under backpressure, by event type."

// HistogramBounds are the upper bounds, in seconds, of the latency buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds as metric name suffixes.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to eight buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the running totals
// exporters publish.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

// SortedKeys returns the keys of m in lexical order so exports are stable.
func SortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
