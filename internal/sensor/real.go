//go:build linux

package sensor

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealSensor measures capacitance on actual hardware by charge timing: the
// pad is driven low to discharge, released to input, and the reading is the
// number of polls until the line charges back to a logic high through its
// pull resistor. A finger near the pad raises its capacitance and therefore
// the count.
type RealSensor struct {
	chip      *gpiocdev.Chip
	line      *gpiocdev.Line
	maxCycles int
}

// dischargeTime is how long the pad is held low before each measurement.
const dischargeTime = 100 * time.Microsecond

// NewRealSensor opens the touch pad line on the given chip.
func NewRealSensor(chipName string, pin, maxCycles int) (*RealSensor, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Start discharged so the first measurement is not skewed by whatever
	// state the pad booted in.
	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request touch pin %d: %w", pin, err)
	}

	if maxCycles <= 0 {
		maxCycles = DefaultMaxCycles
	}
	return &RealSensor{
		chip:      chip,
		line:      line,
		maxCycles: maxCycles,
	}, nil
}

// Measure discharges the pad, releases it, and counts polls until it reads
// high. The count saturates at maxCycles so a floating or shorted pad cannot
// stall the control loop.
func (s *RealSensor) Measure() (int, error) {
	if err := s.line.Reconfigure(gpiocdev.AsOutput(0)); err != nil {
		return 0, fmt.Errorf("discharge touch pad: %w", err)
	}
	time.Sleep(dischargeTime)

	if err := s.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		return 0, fmt.Errorf("release touch pad: %w", err)
	}

	for i := 0; i < s.maxCycles; i++ {
		v, err := s.line.Value()
		if err != nil {
			return 0, fmt.Errorf("read touch pad: %w", err)
		}
		if v != 0 {
			return i, nil
		}
	}
	return s.maxCycles, nil
}

// Close leaves the pad as a pulled-down input, matching boot defaults.
func (s *RealSensor) Close() error {
	var errs []error

	if s.line != nil {
		if err := s.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure touch pin: %w", err))
		}
		if err := s.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close touch pin: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
