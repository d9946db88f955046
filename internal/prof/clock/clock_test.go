package clock

import (
	"testing"
	"time"
)

// TestNowMonotonic verifies timestamps never move backwards.
func TestNowMonotonic(t *testing.T) {
	prev := Now()
	for i := 0; i < 1000; i++ {
		cur := Now()
		if cur < prev {
			t.Fatalf("clock went backwards: %d -> %d", prev, cur)
		}
		prev = cur
	}
}

// TestNowTracksSleep verifies the clock advances by roughly the slept
// duration. Wide tolerance: scheduling jitter on loaded CI machines.
func TestNowTracksSleep(t *testing.T) {
	start := Now()
	time.Sleep(10 * time.Millisecond)
	elapsed := Now() - start

	if elapsed < int64(9*time.Millisecond) {
		t.Errorf("elapsed = %dns, want >= 9ms", elapsed)
	}
	if elapsed > int64(500*time.Millisecond) {
		t.Errorf("elapsed = %dns, want < 500ms", elapsed)
	}
}

// BenchmarkNow measures raw timestamp cost. This bounds the minimum
// per-measurement overhead of the profiler (two calls per block).
func BenchmarkNow(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Now()
	}
}
