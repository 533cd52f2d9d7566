package logger

import (
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Namespace prefixes every exported Prometheus metric name
const Namespace = "gopher"

// Metrics tracks operational metrics including counters, gauges, and timings.
// All operations are thread-safe.
//
// Counters track incrementing values (e.g., rounds created).
// Gauges track point-in-time values (e.g., rounds stored).
// Timings track durations and automatically compute min/max/average statistics.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string]*timingStats
}

// timingStats is the running aggregate of one timing
type timingStats struct {
	count int
	total time.Duration
	min   time.Duration
	max   time.Duration
}

func (t *timingStats) add(d time.Duration) {
	if t.count == 0 || d < t.min {
		t.min = d
	}
	if t.count == 0 || d > t.max {
		t.max = d
	}
	t.count++
	t.total += d
}

var defaultMetrics *Metrics

func init() {
	defaultMetrics = NewMetrics()
}

// NewMetrics creates a new metrics tracker with empty counters, gauges, and timings.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string]*timingStats),
	}
}

// IncrCounter increments a counter by 1. If the counter doesn't exist, it is initialized to 1.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// SetGauge sets a gauge to the specified value, overwriting any previous value.
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// RecordTiming folds a duration measurement into the count, total, min and
// max kept for name.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.timings[name]
	if !ok {
		stats = &timingStats{}
		m.timings[name] = stats
	}
	stats.add(duration)
}

// GetSnapshot returns a snapshot of all metrics as a map containing:
//   - "counters": map of counter names to values
//   - "gauges": map of gauge names to values
//   - "timings": map of timing names to statistics (count, total, average, min, max)
//
// The snapshot is a deep copy, safe to use concurrently with metric updates.
func (m *Metrics) GetSnapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[string]interface{})

	counters := make(map[string]int64)
	for k, v := range m.counters {
		counters[k] = v
	}
	snapshot["counters"] = counters

	gauges := make(map[string]float64)
	for k, v := range m.gauges {
		gauges[k] = v
	}
	snapshot["gauges"] = gauges

	timings := make(map[string]map[string]interface{})
	for name, stats := range m.timings {
		timings[name] = map[string]interface{}{
			"count":   stats.count,
			"total":   stats.total.String(),
			"average": (stats.total / time.Duration(stats.count)).String(),
			"min":     stats.min.String(),
			"max":     stats.max.String(),
		}
	}
	snapshot["timings"] = timings

	return snapshot
}

// Families converts the current metrics to Prometheus metric families.
// Counters get a _total suffix, timings become summaries in seconds.
// Families are sorted by name.
func (m *Metrics) Families() []*dto.MetricFamily {
	m.mu.Lock()
	defer m.mu.Unlock()

	families := make([]*dto.MetricFamily, 0, len(m.counters)+len(m.gauges)+len(m.timings))

	for name, v := range m.counters {
		families = append(families, &dto.MetricFamily{
			Name:   proto.String(metricName(name) + "_total"),
			Type:   dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(float64(v))}}},
		})
	}

	for name, v := range m.gauges {
		families = append(families, &dto.MetricFamily{
			Name:   proto.String(metricName(name)),
			Type:   dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
		})
	}

	for name, stats := range m.timings {
		families = append(families, &dto.MetricFamily{
			Name: proto.String(metricName(name) + "_seconds"),
			Type: dto.MetricType_SUMMARY.Enum(),
			Metric: []*dto.Metric{{Summary: &dto.Summary{
				SampleCount: proto.Uint64(uint64(stats.count)),
				SampleSum:   proto.Float64(stats.total.Seconds()),
			}}},
		})
	}

	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	return families
}

// WritePrometheus renders the metrics in the Prometheus text exposition format
func (m *Metrics) WritePrometheus(w io.Writer) error {
	for _, mf := range m.Families() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// metricName maps "rounds.created" to "gopher_rounds_created"
func metricName(name string) string {
	var b strings.Builder
	b.WriteString(Namespace)
	b.WriteByte('_')
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Package-level metrics functions using the default metrics tracker

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// SetGauge sets a gauge on the default metrics tracker.
func SetGauge(name string, value float64) {
	defaultMetrics.SetGauge(name, value)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// GetMetricsSnapshot returns a snapshot of all metrics from the default tracker.
func GetMetricsSnapshot() map[string]interface{} {
	return defaultMetrics.GetSnapshot()
}

// WritePrometheus renders the default tracker in Prometheus text format
func WritePrometheus(w io.Writer) error {
	return defaultMetrics.WritePrometheus(w)
}
