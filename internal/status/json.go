package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Mode          string     `json:"mode"`
	Intensity     int        `json:"intensity"`
	Reading       int        `json:"reading"`
	Baseline      int        `json:"baseline"`
	Threshold     int        `json:"threshold"`
	Ready         bool       `json:"ready"`
	SensorOK      bool       `json:"sensor_ok"`
	Touches       int        `json:"touches"`
	LastTouch     string     `json:"last_touch,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs          int64  `json:"tick_ms"`
	WarmupMs        int64  `json:"warmup_ms"`
	LightOnMs       int64  `json:"light_on_ms"`
	Spread          int    `json:"spread"`
	BaselineWindow  int    `json:"baseline_window"`
	ProximityWindow int    `json:"proximity_window"`
	Broker          string `json:"broker,omitempty"`
	HTTPAddr        string `json:"http_addr,omitempty"`
	Debug           bool   `json:"debug"`
}

func buildInner(snap Snapshot) StatusInner {
	mode := string(snap.Mode)
	if mode == "" {
		mode = "WARMUP"
	}

	inner := StatusInner{
		Mode:          mode,
		Intensity:     snap.Intensity,
		Reading:       snap.Reading,
		Baseline:      snap.Baseline,
		Threshold:     snap.Threshold,
		Ready:         snap.Ready,
		SensorOK:      snap.SensorOK,
		Touches:       snap.Touches,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			TickMs:          snap.Config.TickMs,
			WarmupMs:        snap.Config.WarmupMs,
			LightOnMs:       snap.Config.LightOnMs,
			Spread:          snap.Config.Spread,
			BaselineWindow:  snap.Config.BaselineWindow,
			ProximityWindow: snap.Config.ProximityWindow,
			Broker:          snap.Config.Broker,
			HTTPAddr:        snap.Config.HTTPAddr,
			Debug:           snap.Config.Debug,
		},
	}

	if !snap.LastTouch.IsZero() {
		inner.LastTouch = snap.LastTouch.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
