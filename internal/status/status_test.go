package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mamacker/FairyFun/internal/logic"
)

var testCfg = Config{
	TickMs:          10,
	WarmupMs:        5000,
	LightOnMs:       30000,
	Spread:          63,
	BaselineWindow:  5000,
	ProximityWindow: 50,
	Broker:          "tcp://192.168.1.200:1883",
	HTTPAddr:        ":8080",
	Debug:           true,
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testCfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("start time: got %v, want %v", snap.StartTime, start)
	}
	if !snap.SensorOK {
		t.Error("new tracker should report sensor OK")
	}
	if snap.Ready {
		t.Error("new tracker should not be ready")
	}
	if snap.Config.Spread != 63 {
		t.Errorf("config spread: got %d", snap.Config.Spread)
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), testCfg)
	touch := time.Date(2026, 1, 1, 12, 0, 1, 0, time.UTC)

	tr.Update(logic.Frame{
		Reading:   800,
		Baseline:  725,
		Threshold: 788,
		Mode:      logic.ModePulsing,
		Intensity: 42,
	}, 3, touch)

	snap := tr.Snapshot()
	if snap.Reading != 800 || snap.Baseline != 725 || snap.Threshold != 788 {
		t.Errorf("pipeline fields: %+v", snap)
	}
	if snap.Mode != logic.ModePulsing {
		t.Errorf("mode: got %s", snap.Mode)
	}
	if snap.Intensity != 42 {
		t.Errorf("intensity: got %d", snap.Intensity)
	}
	if !snap.Ready {
		t.Error("non-warmup frame should mark ready")
	}
	if snap.Touches != 3 || !snap.LastTouch.Equal(touch) {
		t.Errorf("touch accounting: %d, %v", snap.Touches, snap.LastTouch)
	}
}

func TestWarmupFrameNotReady(t *testing.T) {
	tr := NewTracker(time.Now(), testCfg)
	tr.Update(logic.Frame{Warmup: true}, 0, time.Time{})

	if tr.Snapshot().Ready {
		t.Error("warm-up frame should not mark ready")
	}
}

func TestSetSensorOK(t *testing.T) {
	tr := NewTracker(time.Now(), testCfg)

	tr.SetSensorOK(false)
	if tr.Snapshot().SensorOK {
		t.Error("expected SensorOK=false")
	}
	tr.SetSensorOK(true)
	if !tr.Snapshot().SensorOK {
		t.Error("expected SensorOK=true")
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), testCfg)

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, testCfg)

	up := tr.Snapshot().Uptime()
	if up < 89*time.Second || up > 92*time.Second {
		t.Errorf("uptime: got %v, want ~90s", up)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), testCfg)
	tr.Update(logic.Frame{Intensity: 10}, 0, time.Time{})

	snap := tr.Snapshot()
	tr.Update(logic.Frame{Intensity: 99}, 0, time.Time{})

	if snap.Intensity != 10 {
		t.Errorf("snapshot mutated: intensity %d", snap.Intensity)
	}
}

func TestFormatJSON(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), testCfg)
	tr.Update(logic.Frame{
		Reading:   730,
		Baseline:  725,
		Threshold: 788,
		Mode:      logic.ModeProximity,
		Intensity: 5,
	}, 1, time.Date(2026, 1, 1, 12, 1, 0, 0, time.UTC))
	tr.SetMQTTConnected(true)

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if sj.Status.Mode != "PROXIMITY" {
		t.Errorf("mode: got %q", sj.Status.Mode)
	}
	if sj.Status.Reading != 730 || sj.Status.Baseline != 725 || sj.Status.Threshold != 788 {
		t.Errorf("pipeline: %+v", sj.Status)
	}
	if sj.Status.Touches != 1 {
		t.Errorf("touches: got %d", sj.Status.Touches)
	}
	if sj.Status.LastTouch != "2026-01-01T12:01:00Z" {
		t.Errorf("last touch: got %q", sj.Status.LastTouch)
	}
	if !sj.Status.MQTT.Connected || sj.Status.MQTT.Broker != testCfg.Broker {
		t.Errorf("mqtt: %+v", sj.Status.MQTT)
	}
	if sj.Status.Event != "" {
		t.Errorf("web JSON should carry no event, got %q", sj.Status.Event)
	}
	if sj.Status.Config.TickMs != 10 || sj.Status.Config.Spread != 63 {
		t.Errorf("config: %+v", sj.Status.Config)
	}
}

func TestFormatJSONWarmupMode(t *testing.T) {
	tr := NewTracker(time.Now(), testCfg)
	tr.Update(logic.Frame{Warmup: true}, 0, time.Time{})

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.Mode != "WARMUP" {
		t.Errorf("mode: got %q, want WARMUP", sj.Status.Mode)
	}
	if sj.Status.LastTouch != "" {
		t.Errorf("never-touched should omit last_touch, got %q", sj.Status.LastTouch)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testCfg)

	var sj StatusJSON
	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", sj.Status.Event)
	}
	if sj.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", sj.Status.Reason)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	tr := NewTracker(time.Now(), testCfg)

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "STARTUP", ""), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["status"]["reason"]; present {
		t.Error("empty reason should be omitted")
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), testCfg)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Update(logic.Frame{Intensity: n}, j, time.Now())
				tr.SetSensorOK(j%2 == 0)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tr.Snapshot()
				_ = FormatJSON(tr.Snapshot())
			}
		}()
	}
	wg.Wait()
}
