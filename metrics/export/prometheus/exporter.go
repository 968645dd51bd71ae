package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	goJWT "github.com/MrEthical07/goJWT"
	"github.com/MrEthical07/goJWT/metrics/export/internaldefs"
)

const contentType = "text/plain; version=0.0.4; charset=utf-8"

type metricsSource interface {
	MetricsSnapshot() goJWT.MetricsSnapshot
	AuditDroppedByType() map[string]uint64
}

// PrometheusExporter renders engine metrics in Prometheus text exposition format.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter creates a Prometheus exporter that reads from the given [goJWT.Engine].
func NewPrometheusExporter(engine *goJWT.Engine) *PrometheusExporter {
	return &PrometheusExporter{source: engine}
}

// NewPrometheusExporterFromSource creates a Prometheus exporter from any
// snapshot source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render returns the current metrics in Prometheus text exposition format,
// or "" while metrics are disabled and no audit event was dropped.
//
// Audit drops are one series per event type, labelled event_type.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDroppedByType()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && len(dropped) == 0 {
		return ""
	}

	w := expositionWriter{}
	w.b.Grow(4096)

	for _, def := range internaldefs.CounterDefs {
		w.family(def.Name, def.Help, "counter")
		w.sample(def.Name, "", "", snapshot.Counters[def.ID])
	}

	for _, def := range internaldefs.HistogramDefs {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[def.ID]))
		w.family(def.Name, def.Help, "histogram")
		for i, le := range internaldefs.HistogramBounds {
			w.sample(def.Name+"_bucket", "le", le, cumulative[i])
		}
		w.sample(def.Name+"_count", "", "", cumulative[len(cumulative)-1])
		// Snapshots carry bucket counts only.
		w.sample(def.Name+"_sum", "", "", 0)
	}

	w.family(internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, "counter")
	for _, eventType := range internaldefs.SortedKeys(dropped) {
		w.sample(internaldefs.AuditDroppedName, internaldefs.AuditEventTypeLabel, eventType, dropped[eventType])
	}

	return w.b.String()
}

type expositionWriter struct {
	b strings.Builder
}

func (w *expositionWriter) family(name, help, kind string) {
	w.b.WriteString("# HELP ")
	w.b.WriteString(name)
	w.b.WriteByte(' ')
	w.b.WriteString(helpEscaper.Replace(help))
	w.b.WriteString("\n# TYPE ")
	w.b.WriteString(name)
	w.b.WriteByte(' ')
	w.b.WriteString(kind)
	w.b.WriteByte('\n')
}

// sample writes one line; an empty label omits the label set.
func (w *expositionWriter) sample(name, label, value string, v uint64) {
	w.b.WriteString(name)
	if label != "" {
		w.b.WriteByte('{')
		w.b.WriteString(label)
		w.b.WriteString(`="`)
		w.b.WriteString(labelEscaper.Replace(value))
		w.b.WriteString(`"}`)
	}
	w.b.WriteByte(' ')
	w.b.WriteString(strconv.FormatUint(v, 10))
	w.b.WriteByte('\n')
}

var (
	helpEscaper  = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	labelEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `"`, `\"`)
)
