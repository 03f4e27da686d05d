// Package logic contains the pure signal-processing pipeline for the
// capacitive touch sensor and light controller.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Mode represents which algorithm drives the light output.
type Mode string

const (
	// ModePulsing is the time-boxed breathing animation entered after a touch.
	ModePulsing Mode = "PULSING"
	// ModeProximity maps distance-from-baseline to brightness.
	ModeProximity Mode = "PROXIMITY"
)

// MaxIntensity is the upper bound of the actuator's accepted range.
// Values outside [0,MaxIntensity] wrap on the 8-bit hardware channel, so
// every intensity leaving this package is clamped.
const MaxIntensity = 255

// Params holds the tunables of the pipeline. Spread and MinOverThreshold
// are calibration constants observed on physical devices, not derived at
// runtime.
type Params struct {
	// BaselineWindow is the number of readings averaged for the adaptive
	// baseline. BaselineSeed pre-fills the window so the baseline is
	// meaningful from the first tick.
	BaselineWindow int
	BaselineSeed   int

	// Spread is the margin above baseline at which a reading counts as a
	// touch. Tune per device.
	Spread int

	// ProximityWindow is the number of readings smoothed for proximity
	// brightness. MinOverThreshold is the margin above baseline at which a
	// reading counts as a near finger.
	ProximityWindow  int
	MinOverThreshold int

	// PulseSteps is the number of brightness steps in each half of the
	// pulse triangle wave. MinBrightness is the floor of the wave.
	PulseSteps    int
	MinBrightness int

	// LightOnTime is how long the light pulses after a touch.
	// WarmupTime is the initial window during which only the baseline
	// accumulates and no output is driven.
	LightOnTime time.Duration
	WarmupTime  time.Duration
}

// DefaultParams returns the values calibrated for the fairy boxes.
func DefaultParams() Params {
	return Params{
		BaselineWindow:   5000,
		BaselineSeed:     725,
		Spread:           63,
		ProximityWindow:  50,
		MinOverThreshold: 3,
		PulseSteps:       150,
		MinBrightness:    10,
		LightOnTime:      30 * time.Second,
		WarmupTime:       5 * time.Second,
	}
}

// Frame is a value snapshot of one tick of the pipeline, fanned out to the
// actuator, telemetry, status tracker, and metrics.
type Frame struct {
	Time      time.Time
	Reading   int
	Baseline  int
	Threshold int
	// Touched is true when Reading crossed Threshold this tick.
	Touched bool
	// Warmup is true while the initial baseline-only window is active.
	// Warmup frames carry no mode and must not reach the actuator.
	Warmup    bool
	Mode      Mode
	Intensity int
}
