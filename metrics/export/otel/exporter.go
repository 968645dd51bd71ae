package otel

import (
	"context"
	"errors"
	"fmt"

	goJWT "github.com/MrEthical07/goJWT"
	"github.com/MrEthical07/goJWT/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Construction errors.
var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goJWT.MetricsSnapshot
	AuditDroppedByType() map[string]uint64
}

type counterInstrument struct {
	id  goJWT.MetricID
	obs metric.Int64ObservableCounter
}

// histogramInstruments exposes one snapshot histogram as cumulative
// bucket gauges plus a count gauge.
type histogramInstruments struct {
	id      goJWT.MetricID
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// OTelExporter publishes engine metrics through asynchronous instruments
// observed in a single callback.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []counterInstrument
	histograms   []histogramInstruments
	auditDropped metric.Int64ObservableCounter
}

// NewOTelExporter registers instruments on meter reading from engine.
func NewOTelExporter(meter metric.Meter, engine *goJWT.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource is NewOTelExporter for any snapshot source.
// Bucket gauges are named <histogram>_bucket_le_<bound>; audit drops carry
// an event_type attribute.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{source: source}
	var observables []metric.Observable

	for _, def := range internaldefs.CounterDefs {
		obs, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		e.counters = append(e.counters, counterInstrument{id: def.ID, obs: obs})
		observables = append(observables, obs)
	}

	for _, def := range internaldefs.HistogramDefs {
		h, err := newHistogramInstruments(meter, def)
		if err != nil {
			return nil, err
		}
		e.histograms = append(e.histograms, h)
		observables = append(observables, h.count)
		for _, b := range h.buckets {
			observables = append(observables, b)
		}
	}

	dropped, err := meter.Int64ObservableCounter(internaldefs.AuditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp))
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", internaldefs.AuditDroppedName, err)
	}
	e.auditDropped = dropped
	observables = append(observables, dropped)

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func newHistogramInstruments(meter metric.Meter, def internaldefs.HistogramDef) (histogramInstruments, error) {
	h := histogramInstruments{id: def.ID}
	for i, suffix := range internaldefs.HistogramBoundSuffix {
		name := def.Name + "_bucket_le_" + suffix
		g, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative histogram bucket count."))
		if err != nil {
			return h, fmt.Errorf("create gauge %s: %w", name, err)
		}
		h.buckets[i] = g
	}
	name := def.Name + "_count"
	g, err := meter.Int64ObservableGauge(name, metric.WithDescription("Histogram total sample count."))
	if err != nil {
		return h, fmt.Errorf("create gauge %s: %w", name, err)
	}
	h.count = g
	return h, nil
}

// observe reads one snapshot so every instrument in a collection agrees.
func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, c := range e.counters {
		o.ObserveInt64(c.obs, int64(snapshot.Counters[c.id]))
	}
	for _, h := range e.histograms {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[h.id]))
		for i, g := range h.buckets {
			o.ObserveInt64(g, int64(cumulative[i]))
		}
		o.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
	}

	dropped := e.source.AuditDroppedByType()
	for _, eventType := range internaldefs.SortedKeys(dropped) {
		o.ObserveInt64(e.auditDropped, int64(dropped[eventType]),
			metric.WithAttributes(attribute.String(internaldefs.AuditEventTypeLabel, eventType)))
	}
	return nil
}

// Close unregisters the callback. The meter's instruments remain.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
