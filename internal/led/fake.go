package led

// Fake records every applied intensity for test assertions.
type Fake struct {
	// Applied contains all intensities passed to SetIntensity, in order.
	Applied []int

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by SetIntensity.
	SetError error
}

// NewFake creates a Fake dimmer.
func NewFake() *Fake {
	return &Fake{}
}

// SetIntensity records the value (clamped like the real dimmer).
func (f *Fake) SetIntensity(v int) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Applied = append(f.Applied, clamp(v))
	return nil
}

// Last returns the most recently applied intensity, or 0 if none.
func (f *Fake) Last() int {
	if len(f.Applied) == 0 {
		return 0
	}
	return f.Applied[len(f.Applied)-1]
}

// Close marks the dimmer as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded intensities.
func (f *Fake) Reset() {
	f.Applied = nil
	f.Closed = false
	f.SetError = nil
}
