package logic

import "time"

// Controller runs one tick of the touch-to-light pipeline: baseline update,
// touch detection, mode selection, and intensity computation. All state the
// original loop kept in globals and static locals lives in explicit fields
// here.
type Controller struct {
	params   Params
	baseline *BaselineEstimator
	prox     *ProximityAverager

	start     time.Time
	lastTouch time.Time
	touched   bool
	touches   int

	// pulse triangle-wave state
	pulseStep   int
	pulseRising bool

	// lastNear is the most recent proximity level derived while a finger
	// was near; the fade-down never rises above it.
	lastNear int
	// intensity is the last value emitted, held when the smoothed average
	// lags a transient spike.
	intensity int
}

// NewController creates a controller with the given parameters. The start
// time anchors the warm-up window.
func NewController(params Params, start time.Time) *Controller {
	return &Controller{
		params:      params,
		baseline:    NewBaselineEstimator(params.BaselineWindow, params.BaselineSeed),
		prox:        NewProximityAverager(params.ProximityWindow),
		start:       start,
		pulseRising: true,
	}
}

// Step processes one raw reading. It updates the baseline, detects a touch,
// selects the mode, and computes the output intensity for this tick.
func (c *Controller) Step(reading int, now time.Time) Frame {
	base := c.baseline.Update(reading)
	threshold := base + c.params.Spread

	f := Frame{
		Time:      now,
		Reading:   reading,
		Baseline:  base,
		Threshold: threshold,
	}

	if reading >= threshold {
		f.Touched = true
		c.touched = true
		c.lastTouch = now
		c.touches++
	}

	// During warm-up only the baseline accumulates; the output holds.
	if now.Sub(c.start) < c.params.WarmupTime {
		f.Warmup = true
		f.Intensity = c.intensity
		return f
	}

	if c.touched && now.Sub(c.lastTouch) < c.params.LightOnTime {
		f.Mode = ModePulsing
		f.Intensity = c.pulse()
	} else {
		f.Mode = ModeProximity
		f.Intensity = c.near(reading, base)
	}

	c.intensity = f.Intensity
	return f
}

// pulse advances the triangle wave one step and returns its intensity. The
// wave runs MinBrightness..MaxIntensity with period 2*PulseSteps ticks,
// independent of sensor input.
func (c *Controller) pulse() int {
	if c.pulseStep >= c.params.PulseSteps {
		c.pulseRising = false
	}
	if c.pulseStep <= 0 {
		c.pulseRising = true
	}
	if c.pulseRising {
		c.pulseStep++
	} else {
		c.pulseStep--
	}

	v := c.params.MinBrightness + (MaxIntensity-c.params.MinBrightness)*c.pulseStep/c.params.PulseSteps
	return clampIntensity(v)
}

// near maps distance-from-baseline to brightness while a finger hovers, and
// fades the light down monotonically once it withdraws.
func (c *Controller) near(reading, base int) int {
	if reading > base+c.params.MinOverThreshold {
		avg := c.prox.Add(reading)
		c.lastNear = avg - base

		// Only follow the reading once the smoothed average agrees;
		// otherwise hold the previous output so transient spikes
		// don't flash the light.
		if avg > base+c.params.MinOverThreshold {
			return clampIntensity(c.lastNear)
		}
		return c.intensity
	}

	// Finger withdrawing: feed zeros so the window decays.
	avg := c.prox.Add(0)
	closing := avg - base
	if closing > c.lastNear {
		closing = c.lastNear
	}
	// The subtraction goes negative as the window empties; on the unsigned
	// output channel that would wrap to near-maximum, so floor it here.
	if closing < 0 {
		closing = 0
	}

	if avg > base-c.params.MinOverThreshold {
		return clampIntensity(closing)
	}
	// Sufficiently below baseline: hard cutoff so the fade terminates
	// instead of approaching zero forever.
	return 0
}

// Touches returns the number of threshold crossings since start.
func (c *Controller) Touches() int {
	return c.touches
}

// LastTouch returns the timestamp of the most recent touch, and whether any
// touch has occurred.
func (c *Controller) LastTouch() (time.Time, bool) {
	return c.lastTouch, c.touched
}

// Baseline returns the current baseline estimate.
func (c *Controller) Baseline() int {
	return c.baseline.Baseline()
}

func clampIntensity(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}
