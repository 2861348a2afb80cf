package quad

import (
	"testing"
	"time"
)

func TestFrameTimeMetricsEmpty(t *testing.T) {
	m := NewFrameTimeMetrics(8)
	if got := m.Summary(); got != (FrameTimeSummary{}) {
		t.Errorf("empty summary = %+v", got)
	}
	if m.Count() != 0 {
		t.Errorf("empty count = %d", m.Count())
	}
}

func TestFrameTimeMetricsSummary(t *testing.T) {
	m := NewFrameTimeMetrics(100)
	for i := 1; i <= 100; i++ {
		m.Record(time.Duration(i) * time.Millisecond)
	}

	s := m.Summary()
	if s.Max != 100*time.Millisecond {
		t.Errorf("max = %v", s.Max)
	}
	if s.P50 != 50*time.Millisecond {
		t.Errorf("p50 = %v", s.P50)
	}
	if s.P95 != 95*time.Millisecond {
		t.Errorf("p95 = %v", s.P95)
	}
	if s.P99 != 99*time.Millisecond {
		t.Errorf("p99 = %v", s.P99)
	}
	if s.Avg != 50500*time.Microsecond {
		t.Errorf("avg = %v", s.Avg)
	}
}

func TestFrameTimeMetricsSlidingWindow(t *testing.T) {
	m := NewFrameTimeMetrics(4)
	for i := 0; i < 10; i++ {
		m.Record(time.Duration(i) * time.Millisecond)
	}
	if m.Count() != 4 {
		t.Errorf("count = %d, want window size", m.Count())
	}
	// Only the last four samples (6..9ms) remain.
	if got := m.Summary().Max; got != 9*time.Millisecond {
		t.Errorf("max = %v", got)
	}
}
