// Package led drives the dimmable light output with hardware abstraction.
// The real implementation runs software PWM on a Linux GPIO character device
// line. The fake implementation records intensities for tests.
package led

// Dimmer sets the light output intensity.
type Dimmer interface {
	// SetIntensity sets the output level, 0 (off) to 255 (full on).
	// Implementations clamp out-of-range values; the 8-bit hardware
	// channel wraps on anything else.
	SetIntensity(v int) error

	// Close turns the light off and releases resources.
	Close() error
}

// Default wiring for the fairy boxes (BCM numbering). The light is an LED
// filament "noodle" on the main chip.
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 4

	// DefaultPWMHz is the software PWM frequency. High enough that the
	// filament doesn't visibly flicker, low enough for userspace timing.
	DefaultPWMHz = 120
)

// MaxIntensity is the full-on output level.
const MaxIntensity = 255

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}
