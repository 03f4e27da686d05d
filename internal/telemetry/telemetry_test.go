package telemetry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTopics(t *testing.T) {
	if TopicEvents != "fairyfun/sensor/events" {
		t.Errorf("TopicEvents: got %q", TopicEvents)
	}
	if TopicSystem != "fairyfun/sensor/system" {
		t.Errorf("TopicSystem: got %q", TopicSystem)
	}
}

func TestFormatTouchPayload(t *testing.T) {
	event := TouchEvent{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Reading:   800,
		Baseline:  725,
		Threshold: 788,
	}

	data, err := FormatTouchPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"touch":{"timestamp":"2026-01-02T03:04:05Z","reading":800,"baseline":725,"threshold":788}}`
	if string(data) != want {
		t.Errorf("payload:\n got %s\nwant %s", data, want)
	}
}

func TestFormatTouchPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	event := TouchEvent{Timestamp: time.Date(2026, 7, 1, 14, 0, 0, 0, loc)}

	data, err := FormatTouchPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var p TouchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Touch.Timestamp != "2026-07-01T12:00:00Z" {
		t.Errorf("timestamp not UTC: %s", p.Touch.Timestamp)
	}
}

func TestFormatReportPayload(t *testing.T) {
	report := Report{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Reading:   730,
		Baseline:  725,
		Threshold: 788,
		Mode:      "PROXIMITY",
		Intensity: 5,
	}

	data, err := FormatReportPayload(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var p ReportPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Light.Mode != "PROXIMITY" {
		t.Errorf("mode: got %q", p.Light.Mode)
	}
	if p.Light.Intensity != 5 {
		t.Errorf("intensity: got %d", p.Light.Intensity)
	}
	if p.Light.Reading != 730 || p.Light.Baseline != 725 || p.Light.Threshold != 788 {
		t.Errorf("pipeline fields: got %+v", p.Light)
	}
}

func TestFormatReportPayloadOmitsEmptyMode(t *testing.T) {
	data, err := FormatReportPayload(Report{Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["light"]["mode"]; present {
		t.Error("empty mode should be omitted")
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"system":{"timestamp":"2026-01-02T03:04:05Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(data) != want {
		t.Errorf("payload:\n got %s\nwant %s", data, want)
	}
}

func TestFormatSystemPayloadOmitsReason(t *testing.T) {
	data, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Event:     "STARTUP",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["system"]["reason"]; present {
		t.Error("empty reason should be omitted")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"custom":true}}`)
	data, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload not passed through: %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	touch := TouchEvent{Timestamp: time.Now(), Reading: 800, Baseline: 725, Threshold: 788}
	if err := f.PublishTouch(touch); err != nil {
		t.Fatalf("publish touch: %v", err)
	}
	if err := f.PublishReport(Report{Mode: "PULSING", Intensity: 42}); err != nil {
		t.Fatalf("publish report: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("publish system: %v", err)
	}

	if len(f.TouchEvents) != 1 || f.TouchEvents[0].Reading != 800 {
		t.Errorf("touch events: %+v", f.TouchEvents)
	}
	if len(f.Reports) != 1 || f.Reports[0].Intensity != 42 {
		t.Errorf("reports: %+v", f.Reports)
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("system events: %+v", f.SystemEvents)
	}
	if len(f.Payloads) != 2 || len(f.SystemPayloads) != 1 {
		t.Errorf("payload counts: %d events, %d system", len(f.Payloads), len(f.SystemPayloads))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")
	f.PublishSystemError = errors.New("simulated system error")

	if err := f.PublishTouch(TouchEvent{}); err == nil {
		t.Error("expected touch publish error")
	}
	if err := f.PublishReport(Report{}); err == nil {
		t.Error("expected report publish error")
	}
	if err := f.PublishSystem(SystemEvent{}); err == nil {
		t.Error("expected system publish error")
	}
	if len(f.TouchEvents)+len(f.Reports)+len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherCloseAndReset(t *testing.T) {
	f := NewFakePublisher()
	f.PublishTouch(TouchEvent{})
	f.Connected = true
	f.Close()

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
	if !f.IsConnected() {
		t.Error("connected flag should be reported")
	}

	f.Reset()
	if f.Closed || f.Connected || len(f.TouchEvents) != 0 || len(f.Payloads) != 0 {
		t.Error("reset should clear state")
	}
}
