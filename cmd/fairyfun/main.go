// Command fairyfun drives a dimmable fairy light from a capacitive touch
// sensor: a touch pulses the light for a while, otherwise brightness tracks
// hand proximity. Touch events and periodic reports go to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mamacker/FairyFun/internal/config"
	"github.com/mamacker/FairyFun/internal/led"
	"github.com/mamacker/FairyFun/internal/logic"
	"github.com/mamacker/FairyFun/internal/metrics"
	"github.com/mamacker/FairyFun/internal/sensor"
	"github.com/mamacker/FairyFun/internal/status"
	"github.com/mamacker/FairyFun/internal/telemetry"
	"github.com/mamacker/FairyFun/internal/web"
)

func main() {
	configPath := flag.String("config", "fairyfun.yaml", "YAML config file (a missing file uses defaults)")
	broker := flag.String("broker", "=config", `MQTT broker address ("=config" uses the config file, "off" disables)`)
	httpAddr := flag.String("http", "=config", `HTTP status address ("=config" uses the config file, "off" disables)`)
	debug := flag.Bool("debug", false, "Force periodic debug reports on")
	printReading := flag.Bool("print-reading", false, "Take one sensor reading, print it and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyOverride(&cfg.Telemetry.Broker, *broker)
	applyOverride(&cfg.HTTP.Addr, *httpAddr)
	if *debug {
		cfg.Telemetry.Debug = true
	}

	if err := run(cfg, *printReading); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyOverride resolves a flag that can defer to the config file ("=config")
// or disable the feature entirely ("off").
func applyOverride(dst *string, flagVal string) {
	switch flagVal {
	case "=config":
		// keep config value
	case "off":
		*dst = ""
	default:
		*dst = flagVal
	}
}

func run(cfg *config.Config, printReading bool) error {
	// Initialize the touch sensor. A daemon on a lamp should keep the light
	// usable even with broken sensor wiring, so init failure degrades rather
	// than exits.
	var sen sensor.Sensor
	var sensorInitErr error
	if real, err := sensor.NewRealSensor(cfg.Sensor.Chip, cfg.Sensor.Pin, cfg.Sensor.MaxCycles); err != nil {
		log.Printf("sensor init failed, running degraded: %v", err)
		sen = sensor.Degraded{}
		sensorInitErr = err
	} else {
		sen = real
	}
	defer sen.Close()

	// Print reading mode
	if printReading {
		reading, err := sen.Measure()
		if err != nil {
			return fmt.Errorf("measure: %w", err)
		}
		fmt.Printf("reading: %d\n", reading)
		return nil
	}

	// Initialize the light. Without an LED there is nothing to drive.
	dimmer, err := led.NewRealDimmer(cfg.Light.Chip, cfg.Light.Pin, cfg.Light.PWMHz)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}
	defer dimmer.Close()

	// Initialize MQTT (optional)
	var publisher telemetry.Publisher
	var mqttStatus telemetry.ConnectionStatus
	if cfg.Telemetry.Broker != "" {
		pub, err := telemetry.NewRealPublisher(cfg.Telemetry.Broker)
		if err != nil {
			log.Printf("mqtt connect failed, continuing without telemetry: %v", err)
		} else {
			publisher = pub
			mqttStatus = pub
			defer pub.Close()
		}
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:          int64(cfg.Loop.TickMs),
		WarmupMs:        int64(cfg.Loop.WarmupMs),
		LightOnMs:       int64(cfg.Loop.LightOnMs),
		Spread:          cfg.Touch.Spread,
		BaselineWindow:  cfg.Touch.BaselineWindow,
		ProximityWindow: cfg.Touch.ProximityWindow,
		Broker:          cfg.Telemetry.Broker,
		HTTPAddr:        cfg.HTTP.Addr,
		Debug:           cfg.Telemetry.Debug,
	})
	tracker.SetSensorOK(sensorInitErr == nil)
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := telemetry.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
		if sensorInitErr != nil {
			degradedEvent := telemetry.SystemEvent{
				Timestamp: time.Now(),
				Event:     "DEGRADED",
				Reason:    sensorInitErr.Error(),
				Retained:  true,
			}
			if err := publisher.PublishSystem(degradedEvent); err != nil {
				log.Printf("failed to publish degraded event: %v", err)
			}
		}
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: tick=%v warmup=%dms lighton=%dms spread=%d broker=%q",
		cfg.TickInterval(), cfg.Loop.WarmupMs, cfg.Loop.LightOnMs, cfg.Touch.Spread, cfg.Telemetry.Broker)

	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(sen, dimmer, publisher, mqttStatus, tracker,
		cfg.Params(), cfg.Telemetry.Debug, cfg.Loop.DebugEvery,
		time.Now, ticker.C, sigCh)
}

func runLoop(sen sensor.Sensor, dimmer led.Dimmer, publisher telemetry.Publisher, mqttStatus telemetry.ConnectionStatus, tracker *status.Tracker, params logic.Params, debug bool, debugEvery int, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	ctrl := logic.NewController(params, startTime)

	ticks := 0
	readFailures := 0
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := telemetry.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if publisher != nil {
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			// Leave the light off on the way out.
			if err := dimmer.SetIntensity(0); err != nil {
				log.Printf("set intensity error: %v", err)
			}
			return nil

		case <-tick:
			t := now()
			ticks++

			reading, err := sen.Measure()
			if err != nil {
				metrics.SensorError()
				readFailures++
				// At a 10ms tick a dead sensor would flood the log, so only
				// the first failure and every debugEvery-th one are reported.
				if readFailures == 1 || readFailures%debugEvery == 0 {
					log.Printf("sensor read error (x%d): %v", readFailures, err)
				}
				if tracker != nil {
					tracker.SetSensorOK(false)
				}
				continue
			}
			readFailures = 0

			frame := ctrl.Step(reading, t)

			if frame.Touched {
				log.Printf("touch: reading=%d threshold=%d", frame.Reading, frame.Threshold)
				if publisher != nil {
					event := telemetry.TouchEvent{
						Timestamp: t,
						Reading:   frame.Reading,
						Baseline:  frame.Baseline,
						Threshold: frame.Threshold,
					}
					if err := publisher.PublishTouch(event); err != nil {
						log.Printf("touch publish error: %v", err)
						// Don't crash on publish failure
					}
				}
			}

			metrics.ObserveFrame(frame)

			// During warm-up the baseline is still settling; hold the light
			// at its last level rather than flickering from garbage data.
			if !frame.Warmup {
				if err := dimmer.SetIntensity(frame.Intensity); err != nil {
					log.Printf("set intensity error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				lastTouch, _ := ctrl.LastTouch()
				tracker.Update(frame, ctrl.Touches(), lastTouch)
				tracker.SetSensorOK(true)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if debug && ticks%debugEvery == 0 {
				log.Printf("reading=%d baseline=%d threshold=%d mode=%s intensity=%d touches=%d",
					frame.Reading, frame.Baseline, frame.Threshold, frame.Mode, frame.Intensity, ctrl.Touches())
				if publisher != nil {
					report := telemetry.Report{
						Timestamp: t,
						Reading:   frame.Reading,
						Baseline:  frame.Baseline,
						Threshold: frame.Threshold,
						Mode:      string(frame.Mode),
						Intensity: frame.Intensity,
					}
					if err := publisher.PublishReport(report); err != nil {
						log.Printf("report publish error: %v", err)
					}
				}
			}
		}
	}
}
