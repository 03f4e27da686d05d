// Package metrics exposes the pipeline's per-tick state as Prometheus
// collectors, served on the status server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mamacker/FairyFun/internal/logic"
)

var (
	reading = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fairyfun_sensor_reading",
		Help: "Most recent raw capacitance reading.",
	})

	baseline = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fairyfun_sensor_baseline",
		Help: "Adaptive estimate of the no-touch reading.",
	})

	threshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fairyfun_sensor_threshold",
		Help: "Baseline plus the touch margin.",
	})

	intensity = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fairyfun_light_intensity",
		Help: "Output intensity currently driven to the light (0-255).",
	})

	pulsing = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fairyfun_light_pulsing",
		Help: "1 while the post-touch pulse animation runs, 0 in proximity mode.",
	})

	touchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fairyfun_touches_total",
		Help: "Threshold crossings since startup.",
	})

	sensorErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fairyfun_sensor_errors_total",
		Help: "Failed sensor reads since startup.",
	})
)

// ObserveFrame records one control-loop tick.
func ObserveFrame(f logic.Frame) {
	reading.Set(float64(f.Reading))
	baseline.Set(float64(f.Baseline))
	threshold.Set(float64(f.Threshold))
	intensity.Set(float64(f.Intensity))
	if f.Mode == logic.ModePulsing {
		pulsing.Set(1)
	} else {
		pulsing.Set(0)
	}
	if f.Touched {
		touchesTotal.Inc()
	}
}

// SensorError records one failed read.
func SensorError() {
	sensorErrorsTotal.Inc()
}
