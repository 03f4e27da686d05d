// Package sensor provides capacitive touch readings with hardware
// abstraction. The real implementation measures charge time on a Linux GPIO
// character device line. The fake implementation allows testing without
// hardware.
package sensor

import "errors"

// Sensor takes one capacitance-proportional raw sample per call. Readings
// are non-negative; the hardware guarantees no upper bound.
type Sensor interface {
	// Measure blocks for one sample and returns the raw reading.
	Measure() (int, error)

	// Close releases sensor resources.
	Close() error
}

// Default wiring for the fairy boxes (BCM numbering).
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 2

	// DefaultMaxCycles caps the charge poll loop; a disconnected pad reads
	// as fully charged capacitance rather than hanging the tick.
	DefaultMaxCycles = 4096
)

// ErrUnavailable is returned by a degraded sensor whose hardware failed to
// initialize at startup.
var ErrUnavailable = errors.New("sensor: hardware unavailable")

// Degraded is a permanently failing sensor. When the hardware cannot be
// initialized the daemon keeps ticking with one of these instead of halting.
type Degraded struct{}

// Measure always fails.
func (Degraded) Measure() (int, error) {
	return 0, ErrUnavailable
}

// Close is a no-op.
func (Degraded) Close() error {
	return nil
}
