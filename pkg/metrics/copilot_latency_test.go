package metrics

import (
	"testing"
	"time"
)

func TestLatencyTrackerStats(t *testing.T) {
	lt := NewLatencyTracker(100)

	for i := 1; i <= 100; i++ {
		lt.Record(time.Duration(i) * time.Millisecond)
	}

	stats := lt.Stats()
	if stats.Count != 100 {
		t.Fatalf("expected 100 samples, got %d", stats.Count)
	}
	if stats.MinMS != 1 {
		t.Errorf("min = %v, want 1", stats.MinMS)
	}
	if stats.MaxMS != 100 {
		t.Errorf("max = %v, want 100", stats.MaxMS)
	}
	if stats.P50MS < 40 || stats.P50MS > 60 {
		t.Errorf("p50 = %v, want near 50", stats.P50MS)
	}
	if stats.P99MS < stats.P50MS {
		t.Errorf("p99 (%v) below p50 (%v)", stats.P99MS, stats.P50MS)
	}
}

func TestLatencyTrackerSlidingWindow(t *testing.T) {
	lt := NewLatencyTracker(10)

	for i := 0; i < 50; i++ {
		lt.Record(time.Millisecond)
	}

	if stats := lt.Stats(); stats.Count > 10 {
		t.Errorf("window exceeded: %d samples kept", stats.Count)
	}
}

func TestLatencyTrackerEmpty(t *testing.T) {
	lt := NewLatencyTracker(10)
	if stats := lt.Stats(); stats.Count != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestLatencyRegistry(t *testing.T) {
	r := NewLatencyRegistry(100)
	r.Record("sentiment", 10*time.Millisecond)
	r.Record("sentiment", 20*time.Millisecond)
	r.Record("draft", 100*time.Millisecond)

	all := r.AllStats()
	if len(all) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(all))
	}
	if all["sentiment"].Count != 2 {
		t.Errorf("sentiment count = %d, want 2", all["sentiment"].Count)
	}
	if all["draft"].MaxMS != 100 {
		t.Errorf("draft max = %v, want 100", all["draft"].MaxMS)
	}
}
