package dispatch

import "testing"

func TestProcessCPUTime_NonNegativeAndMonotonic(t *testing.T) {
	first := processCPUTime()
	if first < 0 {
		t.Fatalf("expected non-negative CPU time, got %v", first)
	}

	// Burn some CPU so the second reading is expected to have advanced.
	sum := 0
	for i := 0; i < 5_000_000; i++ {
		sum += i
	}
	_ = sum

	second := processCPUTime()
	if second < first {
		t.Fatalf("expected process CPU time to be monotonically non-decreasing, got %v then %v", first, second)
	}
}
