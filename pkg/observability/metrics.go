package observability

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metric names.
const (
	MetricOperationTotal    = "hireflow.operation.total"
	MetricOperationDuration = "hireflow.operation.duration"
	MetricOperationErrors   = "hireflow.operation.errors"

	MetricHTTPRequests = "hireflow.http.requests"
	MetricHTTPDuration = "hireflow.http.duration"

	MetricSweepProcessed = "hireflow.sweep.processed"
	MetricSweepFailures  = "hireflow.sweep.failures"

	MetricEventsPublished = "hireflow.events.published"
	MetricEventsFailed    = "hireflow.events.failed"
	MetricOutboxBatch     = "hireflow.outbox.batch"
)

// Metrics records counters, gauges and timings.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag labels a metric.
type Tag struct {
	Key   string
	Value string
}

// T creates a Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics keeps metrics in process. The worker serves a Snapshot
// on its health port; tests read individual series.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string][]time.Duration
}

// NewInMemoryMetrics creates an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string][]time.Duration),
	}
}

// maxTimings bounds the samples kept per series.
const maxTimings = 512

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	m.counters[seriesKey(name, tags)] += value
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	m.gauges[seriesKey(name, tags)] = value
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Timing(name string, d time.Duration, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := seriesKey(name, tags)
	samples := append(m.timings[key], d)
	if len(samples) > maxTimings {
		samples = samples[len(samples)-maxTimings:]
	}
	m.timings[key] = samples
}

// GetCounter returns a counter series.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[seriesKey(name, tags)]
}

// GetGauge returns a gauge series.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[seriesKey(name, tags)]
}

// GetTimings returns the retained samples of a timing series.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]time.Duration(nil), m.timings[seriesKey(name, tags)]...)
}

// TimingSummary aggregates one timing series.
type TimingSummary struct {
	Count int     `json:"count"`
	AvgMS float64 `json:"avg_ms"`
	MaxMS float64 `json:"max_ms"`
}

// Snapshot is a point-in-time copy of every series.
type Snapshot struct {
	Counters map[string]int64         `json:"counters"`
	Gauges   map[string]float64       `json:"gauges"`
	Timings  map[string]TimingSummary `json:"timings"`
}

// Snapshot copies the current state.
func (m *InMemoryMetrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Gauges:   make(map[string]float64, len(m.gauges)),
		Timings:  make(map[string]TimingSummary, len(m.timings)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = v
	}
	for k, samples := range m.timings {
		var sum, peak time.Duration
		for _, d := range samples {
			sum += d
			peak = max(peak, d)
		}
		s := TimingSummary{Count: len(samples), MaxMS: ms(peak)}
		if len(samples) > 0 {
			s.AvgMS = ms(sum / time.Duration(len(samples)))
		}
		snap.Timings[k] = s
	}
	return snap
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// seriesKey renders name{k=v,...} with tags sorted so tag order does not
// split a series.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}
