// Package config loads the daemon configuration from a YAML file, filling
// in calibrated defaults for anything missing.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mamacker/FairyFun/internal/led"
	"github.com/mamacker/FairyFun/internal/logic"
	"github.com/mamacker/FairyFun/internal/sensor"
)

// Config represents the application configuration.
type Config struct {
	Sensor    SensorConfig    `yaml:"sensor"`
	Light     LightConfig     `yaml:"light"`
	Touch     TouchConfig     `yaml:"touch"`
	Loop      LoopConfig      `yaml:"loop"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// SensorConfig contains touch pad wiring.
type SensorConfig struct {
	Chip      string `yaml:"chip"`
	Pin       int    `yaml:"pin"`
	MaxCycles int    `yaml:"max_cycles"`
}

// LightConfig contains light output wiring and pulse shape.
type LightConfig struct {
	Chip          string `yaml:"chip"`
	Pin           int    `yaml:"pin"`
	PWMHz         int    `yaml:"pwm_hz"`
	PulseSteps    int    `yaml:"pulse_steps"`
	MinBrightness int    `yaml:"min_brightness"`
}

// TouchConfig contains detection calibration. Spread is per-device; the
// default is the stable margin observed on the tested boxes.
type TouchConfig struct {
	Spread           int `yaml:"spread"`
	MinOverThreshold int `yaml:"min_over_threshold"`
	BaselineWindow   int `yaml:"baseline_window"`
	BaselineSeed     int `yaml:"baseline_seed"`
	ProximityWindow  int `yaml:"proximity_window"`
}

// LoopConfig contains control-loop timing, in milliseconds.
type LoopConfig struct {
	TickMs     int `yaml:"tick_ms"`
	WarmupMs   int `yaml:"warmup_ms"`
	LightOnMs  int `yaml:"light_on_ms"`
	DebugEvery int `yaml:"debug_every"`
}

// TelemetryConfig contains MQTT settings. An empty broker disables
// publishing.
type TelemetryConfig struct {
	Broker string `yaml:"broker"`
	Debug  bool   `yaml:"debug"`
}

// HTTPConfig contains the status server address. Empty disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration calibrated for the fairy boxes.
func Default() *Config {
	p := logic.DefaultParams()
	return &Config{
		Sensor: SensorConfig{
			Chip:      sensor.DefaultChip,
			Pin:       sensor.DefaultPin,
			MaxCycles: sensor.DefaultMaxCycles,
		},
		Light: LightConfig{
			Chip:          led.DefaultChip,
			Pin:           led.DefaultPin,
			PWMHz:         led.DefaultPWMHz,
			PulseSteps:    p.PulseSteps,
			MinBrightness: p.MinBrightness,
		},
		Touch: TouchConfig{
			Spread:           p.Spread,
			MinOverThreshold: p.MinOverThreshold,
			BaselineWindow:   p.BaselineWindow,
			BaselineSeed:     p.BaselineSeed,
			ProximityWindow:  p.ProximityWindow,
		},
		Loop: LoopConfig{
			TickMs:     10,
			WarmupMs:   int(p.WarmupTime / time.Millisecond),
			LightOnMs:  int(p.LightOnTime / time.Millisecond),
			DebugEvery: 51,
		},
		Telemetry: TelemetryConfig{
			Broker: "", // disabled unless configured
			Debug:  true,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, defaults are used.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.ensureDefaults()
	return cfg, nil
}

// ensureDefaults backfills fields where zero would break the pipeline.
// Zero means "use the calibrated default", not "off".
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Sensor.Chip == "" {
		c.Sensor.Chip = def.Sensor.Chip
	}
	if c.Sensor.MaxCycles <= 0 {
		c.Sensor.MaxCycles = def.Sensor.MaxCycles
	}

	if c.Light.Chip == "" {
		c.Light.Chip = def.Light.Chip
	}
	if c.Light.PWMHz <= 0 {
		c.Light.PWMHz = def.Light.PWMHz
	}
	if c.Light.PulseSteps <= 0 {
		c.Light.PulseSteps = def.Light.PulseSteps
	}
	if c.Light.MinBrightness <= 0 {
		c.Light.MinBrightness = def.Light.MinBrightness
	}

	if c.Touch.Spread <= 0 {
		c.Touch.Spread = def.Touch.Spread
	}
	if c.Touch.MinOverThreshold <= 0 {
		c.Touch.MinOverThreshold = def.Touch.MinOverThreshold
	}
	if c.Touch.BaselineWindow <= 0 {
		c.Touch.BaselineWindow = def.Touch.BaselineWindow
	}
	if c.Touch.BaselineSeed <= 0 {
		c.Touch.BaselineSeed = def.Touch.BaselineSeed
	}
	if c.Touch.ProximityWindow <= 0 {
		c.Touch.ProximityWindow = def.Touch.ProximityWindow
	}

	if c.Loop.TickMs <= 0 {
		c.Loop.TickMs = def.Loop.TickMs
	}
	if c.Loop.WarmupMs <= 0 {
		c.Loop.WarmupMs = def.Loop.WarmupMs
	}
	if c.Loop.LightOnMs <= 0 {
		c.Loop.LightOnMs = def.Loop.LightOnMs
	}
	if c.Loop.DebugEvery <= 0 {
		c.Loop.DebugEvery = def.Loop.DebugEvery
	}
}

// Params converts the calibration sections into pipeline parameters.
func (c *Config) Params() logic.Params {
	return logic.Params{
		BaselineWindow:   c.Touch.BaselineWindow,
		BaselineSeed:     c.Touch.BaselineSeed,
		Spread:           c.Touch.Spread,
		ProximityWindow:  c.Touch.ProximityWindow,
		MinOverThreshold: c.Touch.MinOverThreshold,
		PulseSteps:       c.Light.PulseSteps,
		MinBrightness:    c.Light.MinBrightness,
		LightOnTime:      time.Duration(c.Loop.LightOnMs) * time.Millisecond,
		WarmupTime:       time.Duration(c.Loop.WarmupMs) * time.Millisecond,
	}
}

// TickInterval returns the control-loop tick as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Loop.TickMs) * time.Millisecond
}
