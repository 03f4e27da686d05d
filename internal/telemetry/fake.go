package telemetry

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// TouchEvents contains all touch events that were published.
	TouchEvents []TouchEvent

	// Reports contains all periodic reports that were published.
	Reports []Report

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// Payloads contains the JSON payloads for touch events and reports.
	Payloads [][]byte

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishTouch and
	// PublishReport.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishTouch records the touch event.
func (f *FakePublisher) PublishTouch(event TouchEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.TouchEvents = append(f.TouchEvents, event)

	payload, err := FormatTouchPayload(event)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// PublishReport records the report.
func (f *FakePublisher) PublishReport(report Report) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Reports = append(f.Reports, report)

	payload, err := FormatReportPayload(report)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.TouchEvents = nil
	f.Reports = nil
	f.SystemEvents = nil
	f.Payloads = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
