package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goJWT "github.com/MrEthical07/goJWT"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	snapshot goJWT.MetricsSnapshot
	dropped  map[string]uint64
}

func (f fakeSource) MetricsSnapshot() goJWT.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDroppedByType() map[string]uint64  { return f.dropped }

func emptySnapshot() goJWT.MetricsSnapshot {
	return goJWT.MetricsSnapshot{
		Counters:   map[goJWT.MetricID]uint64{},
		Histograms: map[goJWT.MetricID][]uint64{},
	}
}

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{snapshot: emptySnapshot()})
	assert.Empty(t, exp.Render())
}

func TestRenderNilExporter(t *testing.T) {
	var exp *PrometheusExporter
	assert.Empty(t, exp.Render())
}

func TestRenderCountersAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goJWT.MetricsSnapshot{
			Counters: map[goJWT.MetricID]uint64{
				goJWT.MetricIssueSuccess:      7,
				goJWT.MetricVerifyBlacklisted: 3,
			},
			Histograms: map[goJWT.MetricID][]uint64{
				goJWT.MetricVerifyLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: map[string]uint64{goJWT.AuditTokenIssued: 2},
	})

	out := exp.Render()
	assert.Contains(t, out, "# TYPE gojwt_issue_success_total counter\n")
	assert.Contains(t, out, "gojwt_issue_success_total 7\n")
	assert.Contains(t, out, "gojwt_verify_blacklisted_total 3\n")
	assert.Contains(t, out, "gojwt_invalidate_forever_total 0\n")
	assert.Contains(t, out, "# TYPE gojwt_verify_latency_seconds histogram\n")
	assert.Contains(t, out, `gojwt_verify_latency_seconds_bucket{le="0.005"} 1`)
	assert.Contains(t, out, `gojwt_verify_latency_seconds_bucket{le="0.01"} 3`)
	assert.Contains(t, out, `gojwt_verify_latency_seconds_bucket{le="+Inf"} 36`)
	assert.Contains(t, out, "gojwt_verify_latency_seconds_count 36\n")
	assert.Contains(t, out, "gojwt_verify_latency_seconds_sum 0\n")
	assert.Contains(t, out, "# TYPE gojwt_audit_dropped_total counter\n")
	assert.Contains(t, out, `gojwt_audit_dropped_total{event_type="token_issued"} 2`+"\n")
}

func TestRenderDroppedOnly(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: emptySnapshot(),
		dropped:  map[string]uint64{
			goJWT.AuditTokenVerifyFailed: 5,
			goJWT.AuditTokenRevoked:      1,
		},
	})

	out := exp.Render()
	revoked := `gojwt_audit_dropped_total{event_type="token_revoked"} 1` + "\n"
	failed := `gojwt_audit_dropped_total{event_type="token_verify_failed"} 5` + "\n"
	assert.Contains(t, out, revoked)
	assert.Contains(t, out, failed)
	assert.Less(t, strings.Index(out, revoked), strings.Index(out, failed))
	assert.NotContains(t, out, "gojwt_audit_dropped_total 0")
}

func TestRenderEscapesLabelValues(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: emptySnapshot(),
		dropped:  map[string]uint64{"odd\"type\"\n": 1},
	})

	assert.Contains(t, exp.Render(), `gojwt_audit_dropped_total{event_type="odd\"type\"\n"} 1`)
}

func TestRenderNoDropsKeepsFamilyHeader(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goJWT.MetricsSnapshot{
			Counters: map[goJWT.MetricID]uint64{goJWT.MetricIssueSuccess: 1},
		},
	})

	out := exp.Render()
	assert.Contains(t, out, "# TYPE gojwt_audit_dropped_total counter\n")
	assert.NotContains(t, out, "gojwt_audit_dropped_total{")
}

func TestRenderOrderIsStable(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goJWT.MetricsSnapshot{
			Counters: map[goJWT.MetricID]uint64{goJWT.MetricIssueSuccess: 1},
		},
	})

	out := exp.Render()
	assert.Equal(t, out, exp.Render())
	assert.Less(t,
		strings.Index(out, "gojwt_issue_success_total"),
		strings.Index(out, "gojwt_invalidate_failure_total"))
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goJWT.MetricsSnapshot{
			Counters: map[goJWT.MetricID]uint64{goJWT.MetricIssueSuccess: 1},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "gojwt_issue_success_total 1")
}

func TestExporterReadsEngine(t *testing.T) {
	cfg := goJWT.DefaultConfig()
	cfg.Secret = strings.Repeat("k", 32)

	engine, err := goJWT.New().
		WithConfig(cfg).
		WithMetricsEnabled(true).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	_, err = engine.Issue(context.Background(), goJWT.StaticRequest{RootURL: "https://api.test"}, goJWT.SubjectID("u1"))
	require.NoError(t, err)

	out := NewPrometheusExporter(engine).Render()
	assert.Contains(t, out, "gojwt_issue_success_total 1\n")
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goJWT.MetricsSnapshot{
			Counters: map[goJWT.MetricID]uint64{
				goJWT.MetricIssueSuccess:      1000,
				goJWT.MetricIssueFailure:      4,
				goJWT.MetricVerifySuccess:     9000,
				goJWT.MetricVerifyFailure:     40,
				goJWT.MetricVerifyExpired:     120,
				goJWT.MetricVerifyBlacklisted: 12,
				goJWT.MetricInvalidateSuccess: 30,
			},
			Histograms: map[goJWT.MetricID][]uint64{
				goJWT.MetricVerifyLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
