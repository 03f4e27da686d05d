package sensor

import "errors"

// Fake is a test double that returns scripted readings.
type Fake struct {
	// Readings contains scripted raw samples. Each call to Measure()
	// consumes the next one.
	Readings []int

	// index tracks current position in Readings
	index int

	// Closed tracks if Close was called
	Closed bool

	// MeasureError, if set, will be returned by Measure()
	MeasureError error
}

// NewFake creates a Fake with the given readings.
func NewFake(readings []int) *Fake {
	return &Fake{Readings: readings}
}

// Measure returns the next scripted reading.
// If readings are exhausted, returns the last one repeatedly.
func (f *Fake) Measure() (int, error) {
	if f.MeasureError != nil {
		return 0, f.MeasureError
	}

	if len(f.Readings) == 0 {
		return 0, errors.New("no readings configured")
	}

	r := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}

	return r, nil
}

// Close marks the sensor as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the scripted readings.
func (f *Fake) Reset() {
	f.index = 0
	f.Closed = false
}
