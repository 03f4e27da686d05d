package logic

// meanRing is a fixed-capacity ring of readings with a running sum, so the
// mean over exactly the last N inserted-or-seed values is O(1) per insert.
// Not safe for concurrent use — the control loop touches it once per tick.
type meanRing struct {
	slots  []int
	cursor int
	sum    int
}

func newMeanRing(capacity, seed int) *meanRing {
	if capacity <= 0 {
		capacity = 1
	}
	r := &meanRing{slots: make([]int, capacity)}
	for i := range r.slots {
		r.slots[i] = seed
	}
	r.sum = seed * capacity
	return r
}

// insert replaces the oldest slot with v and returns the truncating integer
// mean of all slots.
func (r *meanRing) insert(v int) int {
	r.sum -= r.slots[r.cursor]
	r.slots[r.cursor] = v
	r.sum += v
	r.cursor = (r.cursor + 1) % len(r.slots)
	return r.mean()
}

func (r *meanRing) mean() int {
	return r.sum / len(r.slots)
}

// BaselineEstimator maintains a rolling average of raw sensor readings to
// track slowly drifting ambient capacitance (humidity, temperature, stray RF
// all shift the no-touch reading). The window is seeded so the baseline is
// defined before the first real reading arrives.
type BaselineEstimator struct {
	ring *meanRing
}

// NewBaselineEstimator creates an estimator over a window of the given size,
// pre-filled with seed.
func NewBaselineEstimator(window, seed int) *BaselineEstimator {
	return &BaselineEstimator{ring: newMeanRing(window, seed)}
}

// Update inserts reading into the window and returns the new baseline: the
// truncating integer mean over exactly the window's worth of most recent
// (or seed) values.
func (e *BaselineEstimator) Update(reading int) int {
	return e.ring.insert(reading)
}

// Baseline returns the current baseline without inserting a reading.
func (e *BaselineEstimator) Baseline() int {
	return e.ring.mean()
}

// ProximityAverager smooths recent effective readings into a short-window
// average, so near-threshold jitter does not flicker the light.
type ProximityAverager struct {
	ring *meanRing
}

// NewProximityAverager creates an averager over a window of the given size,
// initially all zero.
func NewProximityAverager(window int) *ProximityAverager {
	return &ProximityAverager{ring: newMeanRing(window, 0)}
}

// Add inserts value (a raw reading, or 0 when the finger is withdrawing)
// and returns the truncating integer mean of the window.
func (a *ProximityAverager) Add(value int) int {
	return a.ring.insert(value)
}

// Average returns the current window mean without inserting a value.
func (a *ProximityAverager) Average() int {
	return a.ring.mean()
}
