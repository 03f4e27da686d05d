//go:build !linux

package sensor

import "errors"

// RealSensor is not available on non-Linux platforms.
type RealSensor struct{}

// NewRealSensor returns an error on non-Linux platforms.
func NewRealSensor(chipName string, pin, maxCycles int) (*RealSensor, error) {
	return nil, errors.New("sensor: not supported on this platform (requires Linux)")
}

// Measure is not implemented on non-Linux platforms.
func (s *RealSensor) Measure() (int, error) {
	return 0, errors.New("sensor: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *RealSensor) Close() error {
	return nil
}
