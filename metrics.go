package quad

import (
	"sort"
	"time"
)

// defaultMetricsWindow is how many recent frames the metrics keep.
const defaultMetricsWindow = 240

// FrameTimeMetrics tracks recent frame durations in a sliding window
// and summarizes them as percentiles. The engine records one sample
// per EndFrame; callers can also use it standalone.
type FrameTimeMetrics struct {
	samples []time.Duration
	next    int
	filled  bool

	reportEvery int
	frameCount  int
}

// NewFrameTimeMetrics creates metrics over a window of the given size.
// A non-positive window uses the default.
func NewFrameTimeMetrics(window int) *FrameTimeMetrics {
	if window <= 0 {
		window = defaultMetricsWindow
	}
	return &FrameTimeMetrics{samples: make([]time.Duration, window)}
}

// ReportEvery makes Record log a summary at Debug every n frames.
// Zero disables reporting.
func (m *FrameTimeMetrics) ReportEvery(n int) {
	m.reportEvery = n
}

// Record adds one frame duration.
func (m *FrameTimeMetrics) Record(d time.Duration) {
	m.samples[m.next] = d
	m.next++
	if m.next == len(m.samples) {
		m.next = 0
		m.filled = true
	}
	m.frameCount++

	if m.reportEvery > 0 && m.frameCount%m.reportEvery == 0 {
		s := m.Summary()
		Logger().Debug("frame time",
			"frames", m.frameCount,
			"avg", s.Avg,
			"p50", s.P50,
			"p95", s.P95,
			"p99", s.P99,
			"max", s.Max)
	}
}

// Count returns how many samples the window currently holds.
func (m *FrameTimeMetrics) Count() int {
	if m.filled {
		return len(m.samples)
	}
	return m.next
}

// FrameTimeSummary holds aggregate statistics over the sample window.
type FrameTimeSummary struct {
	Avg time.Duration
	P50 time.Duration
	P95 time.Duration
	P99 time.Duration
	Max time.Duration
}

// Summary computes statistics over the current window. An empty window
// yields the zero summary.
func (m *FrameTimeMetrics) Summary() FrameTimeSummary {
	n := m.Count()
	if n == 0 {
		return FrameTimeSummary{}
	}

	sorted := make([]time.Duration, n)
	copy(sorted, m.samples[:n])
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	return FrameTimeSummary{
		Avg: sum / time.Duration(n),
		P50: sorted[percentileIndex(n, 50)],
		P95: sorted[percentileIndex(n, 95)],
		P99: sorted[percentileIndex(n, 99)],
		Max: sorted[n-1],
	}
}

// percentileIndex maps a percentile to a sorted sample index using the
// nearest-rank method.
func percentileIndex(n, pct int) int {
	idx := n*pct/100 - 1
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
