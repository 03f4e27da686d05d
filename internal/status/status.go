// Package status provides a thread-safe status tracker for the fairyfun
// daemon. It is read by the HTTP handlers while the control loop writes it
// every tick.
package status

import (
	"sync"
	"time"

	"github.com/mamacker/FairyFun/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs          int64
	WarmupMs        int64
	LightOnMs       int64
	Spread          int
	BaselineWindow  int
	ProximityWindow int
	Broker          string
	HTTPAddr        string
	Debug           bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Reading   int
	Baseline  int
	Threshold int
	Mode      logic.Mode
	Intensity int
	// Ready is true once the warm-up window has passed.
	Ready bool

	Touches   int
	LastTouch time.Time // zero if never touched

	// SensorOK is false while readings are failing (degraded mode).
	SensorOK      bool
	MQTTConnected bool

	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			SensorOK:  true,
			Config:    cfg,
		},
	}
}

// Update records the latest pipeline frame and touch accounting.
// Called from the control loop on every tick.
func (t *Tracker) Update(f logic.Frame, touches int, lastTouch time.Time) {
	t.mu.Lock()
	t.snap.Reading = f.Reading
	t.snap.Baseline = f.Baseline
	t.snap.Threshold = f.Threshold
	t.snap.Mode = f.Mode
	t.snap.Intensity = f.Intensity
	t.snap.Ready = !f.Warmup
	t.snap.Touches = touches
	t.snap.LastTouch = lastTouch
	t.mu.Unlock()
}

// SetSensorOK records whether readings are currently succeeding.
func (t *Tracker) SetSensorOK(ok bool) {
	t.mu.Lock()
	t.snap.SensorOK = ok
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
