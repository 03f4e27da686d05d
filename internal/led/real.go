//go:build linux

package led

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealDimmer drives an output line with software PWM from a background
// goroutine. SetIntensity only stores the duty cycle, so the control loop
// never blocks on the waveform.
type RealDimmer struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line

	duty   atomic.Int32 // 0..255
	period time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

// NewRealDimmer opens the light line and starts the PWM goroutine at the
// given frequency.
func NewRealDimmer(chipName string, pin, pwmHz int) (*RealDimmer, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Start off. The pin can boot in a weird state.
	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request light pin %d: %w", pin, err)
	}

	if pwmHz <= 0 {
		pwmHz = DefaultPWMHz
	}
	d := &RealDimmer{
		chip:   chip,
		line:   line,
		period: time.Second / time.Duration(pwmHz),
		done:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()
	return d, nil
}

// SetIntensity sets the duty cycle, clamped to [0,255].
func (d *RealDimmer) SetIntensity(v int) error {
	d.duty.Store(int32(clamp(v)))
	return nil
}

func (d *RealDimmer) run() {
	defer d.wg.Done()

	for {
		select {
		case <-d.done:
			return
		default:
		}

		duty := time.Duration(d.duty.Load())
		on := d.period * duty / MaxIntensity

		switch {
		case on <= 0:
			d.line.SetValue(0)
			time.Sleep(d.period)
		case on >= d.period:
			d.line.SetValue(1)
			time.Sleep(d.period)
		default:
			d.line.SetValue(1)
			time.Sleep(on)
			d.line.SetValue(0)
			time.Sleep(d.period - on)
		}
	}
}

// Close stops the PWM goroutine, drives the line low, and releases it.
func (d *RealDimmer) Close() error {
	close(d.done)
	d.wg.Wait()

	var errs []error
	if err := d.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("clear light pin: %w", err))
	}
	if err := d.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close light pin: %w", err))
	}
	if err := d.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
