//go:build !linux

package led

import "errors"

// RealDimmer is not available on non-Linux platforms.
type RealDimmer struct{}

// NewRealDimmer returns an error on non-Linux platforms.
func NewRealDimmer(chipName string, pin, pwmHz int) (*RealDimmer, error) {
	return nil, errors.New("led: not supported on this platform (requires Linux)")
}

// SetIntensity is not implemented on non-Linux platforms.
func (d *RealDimmer) SetIntensity(v int) error {
	return errors.New("led: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDimmer) Close() error {
	return nil
}
