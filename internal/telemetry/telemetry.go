// Package telemetry publishes touch and light events over MQTT, with
// abstraction for testing. Publishing is fire-and-forget from the control
// loop's point of view: failures are reported as errors, never fatal.
package telemetry

import (
	"encoding/json"
	"time"
)

// TopicEvents is the MQTT topic for touch and periodic light reports.
const TopicEvents = "fairyfun/sensor/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "fairyfun/sensor/system"

// Publisher publishes events to a broker.
type Publisher interface {
	// PublishTouch sends a touch event.
	PublishTouch(event TouchEvent) error

	// PublishReport sends a periodic light telemetry report.
	PublishReport(report Report) error

	// PublishSystem sends a system lifecycle event.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// TouchEvent records one threshold crossing.
type TouchEvent struct {
	Timestamp time.Time
	Reading   int
	Baseline  int
	Threshold int
}

// Report is a periodic snapshot of the pipeline, published every debug
// cadence while debug mode is on.
type Report struct {
	Timestamp time.Time
	Reading   int
	Baseline  int
	Threshold int
	Mode      string
	Intensity int
}

// SystemEvent represents a system lifecycle event
// (e.g., "STARTUP", "SHUTDOWN", "DEGRADED").
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // e.g., "SIGTERM", or the init error for DEGRADED
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// TouchPayload is the MQTT message envelope for touch events.
type TouchPayload struct {
	Touch TouchPayloadInner `json:"touch"`
}

// TouchPayloadInner contains the touch event details.
type TouchPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Reading   int    `json:"reading"`
	Baseline  int    `json:"baseline"`
	Threshold int    `json:"threshold"`
}

// FormatTouchPayload creates the JSON payload for a touch event.
func FormatTouchPayload(event TouchEvent) ([]byte, error) {
	payload := TouchPayload{
		Touch: TouchPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Reading:   event.Reading,
			Baseline:  event.Baseline,
			Threshold: event.Threshold,
		},
	}
	return json.Marshal(payload)
}

// ReportPayload is the MQTT message envelope for periodic reports.
type ReportPayload struct {
	Light ReportPayloadInner `json:"light"`
}

// ReportPayloadInner contains the report details.
type ReportPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Reading   int    `json:"reading"`
	Baseline  int    `json:"baseline"`
	Threshold int    `json:"threshold"`
	Mode      string `json:"mode,omitempty"`
	Intensity int    `json:"intensity"`
}

// FormatReportPayload creates the JSON payload for a periodic report.
func FormatReportPayload(report Report) ([]byte, error) {
	payload := ReportPayload{
		Light: ReportPayloadInner{
			Timestamp: report.Timestamp.UTC().Format(time.RFC3339),
			Reading:   report.Reading,
			Baseline:  report.Baseline,
			Threshold: report.Threshold,
			Mode:      report.Mode,
			Intensity: report.Intensity,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message envelope for simple system events that
// don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
