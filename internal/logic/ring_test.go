package logic

import "testing"

func TestBaselineSeededMean(t *testing.T) {
	e := NewBaselineEstimator(5, 725)
	if got := e.Baseline(); got != 725 {
		t.Errorf("seeded baseline: got %d, want 725", got)
	}
}

func TestBaselineEviction(t *testing.T) {
	e := NewBaselineEstimator(3, 10)

	// Window starts [10 10 10].
	if got := e.Update(1); got != 7 {
		t.Errorf("after 1: got %d, want 7", got) // (1+10+10)/3
	}
	if got := e.Update(2); got != 4 {
		t.Errorf("after 2: got %d, want 4", got) // (1+2+10)/3
	}
	if got := e.Update(3); got != 2 {
		t.Errorf("after 3: got %d, want 2", got) // (1+2+3)/3
	}
	// Oldest real reading (1) evicted now.
	if got := e.Update(4); got != 3 {
		t.Errorf("after 4: got %d, want 3", got) // (2+3+4)/3
	}
}

func TestBaselineTruncatingDivision(t *testing.T) {
	e := NewBaselineEstimator(4, 0)
	e.Update(5)
	if got := e.Update(6); got != 2 {
		t.Errorf("got %d, want 2", got) // 11/4 truncates
	}
}

// TestBaselineMatchesBruteForce checks the running-sum optimization against
// a recomputed mean over the last N inserted-or-seed values.
func TestBaselineMatchesBruteForce(t *testing.T) {
	const window = 7
	const seed = 100
	e := NewBaselineEstimator(window, seed)

	history := make([]int, window)
	for i := range history {
		history[i] = seed
	}

	readings := []int{0, 3, 999, 42, 42, 42, 7, 7, 7, 7, 7, 7, 7, 7, 1000000, 0, 5}
	for i, r := range readings {
		history = append(history[1:], r)
		sum := 0
		for _, v := range history {
			sum += v
		}
		want := sum / window

		if got := e.Update(r); got != want {
			t.Errorf("reading %d (%d): got %d, want %d", i, r, got, want)
		}
	}
}

func TestBaselineWindowFloor(t *testing.T) {
	// A nonsense window degrades to a single slot rather than panicking.
	e := NewBaselineEstimator(0, 9)
	if got := e.Update(4); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}

func TestProximityAveragerStartsAtZero(t *testing.T) {
	a := NewProximityAverager(50)
	if got := a.Average(); got != 0 {
		t.Errorf("initial average: got %d, want 0", got)
	}
}

func TestProximityAveragerRamp(t *testing.T) {
	a := NewProximityAverager(4)

	if got := a.Add(100); got != 25 {
		t.Errorf("after one: got %d, want 25", got)
	}
	a.Add(100)
	a.Add(100)
	if got := a.Add(100); got != 100 {
		t.Errorf("full window: got %d, want 100", got)
	}
	// Zeros decay the window back down.
	if got := a.Add(0); got != 75 {
		t.Errorf("after zero: got %d, want 75", got)
	}
}
