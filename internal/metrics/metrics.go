// Package metrics holds the prometheus collectors of the node and the
// collector. Every helper is a no-op until Init has run.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "hazard_"

	resultSuccess = "success"
	resultError   = "error"
	resultTimeout = "timeout"
)

// Exported result labels.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultTimeout = resultTimeout
)

var connectivityStates = []string{"IDLE", "CONNECTING", "CONNECTED", "SENDING", "FAILED"}

var (
	registerOnce sync.Once

	readings     *prometheus.GaugeVec
	alerts       *prometheus.CounterVec
	sensorFaults *prometheus.CounterVec

	associations       *prometheus.CounterVec
	associationLatency *prometheus.HistogramVec
	connectivity       *prometheus.GaugeVec

	transmissions       *prometheus.CounterVec
	transmissionLatency *prometheus.HistogramVec

	collectorReadings *prometheus.CounterVec
)

// Init registers all collectors with the default registry.
func Init() {
	registerOnce.Do(func() {
		readings = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "reading",
				Help: "Latest sanitized reading by quantity",
			},
			[]string{"quantity"},
		)
		alerts = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_total",
				Help: "Total threshold violations by quantity",
			},
			[]string{"quantity"},
		)
		sensorFaults = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sensor_faults_total",
				Help: "Total invalid or failed sensor reads by sensor",
			},
			[]string{"sensor"},
		)

		associations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "radio_associations_total",
				Help: "Total radio association attempts by result",
			},
			[]string{"result"},
		)
		associationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "radio_association_seconds",
				Help:    "Radio association latency in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"result"},
		)
		connectivity = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "connectivity_state",
				Help: "1 for the current connectivity state, 0 otherwise",
			},
			[]string{"state"},
		)

		transmissions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "telemetry_transmissions_total",
				Help: "Total telemetry POST attempts by result",
			},
			[]string{"result"},
		)
		transmissionLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "telemetry_transmission_seconds",
				Help:    "Telemetry POST latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		collectorReadings = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "collector_readings_total",
				Help: "Total telemetry bodies received by the collector by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			readings,
			alerts,
			sensorFaults,
			associations,
			associationLatency,
			connectivity,
			transmissions,
			transmissionLatency,
			collectorReadings,
		)
	})
}

// SetReading records the latest value of a quantity.
func SetReading(quantity string, v float64) {
	if readings != nil {
		readings.WithLabelValues(quantity).Set(v)
	}
}

// IncAlert counts a threshold violation.
func IncAlert(quantity string) {
	if alerts != nil {
		alerts.WithLabelValues(quantity).Inc()
	}
}

// IncSensorFault counts an invalid or failed sensor read.
func IncSensorFault(sensor string) {
	if sensor == "" {
		sensor = "unknown"
	}
	if sensorFaults != nil {
		sensorFaults.WithLabelValues(sensor).Inc()
	}
}

// ObserveAssociation records an association attempt.
func ObserveAssociation(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if associations != nil {
		associations.WithLabelValues(result).Inc()
	}
	if associationLatency != nil {
		associationLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// SetConnectivity marks state as current.
func SetConnectivity(state string) {
	if connectivity == nil {
		return
	}
	for _, s := range connectivityStates {
		v := 0.0
		if s == state {
			v = 1
		}
		connectivity.WithLabelValues(s).Set(v)
	}
}

// ObserveTransmission records a telemetry POST.
func ObserveTransmission(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if transmissions != nil {
		transmissions.WithLabelValues(result).Inc()
	}
	if transmissionLatency != nil {
		transmissionLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncCollectorReading counts a body received by the collector.
func IncCollectorReading(result string) {
	if result == "" {
		result = resultSuccess
	}
	if collectorReadings != nil {
		collectorReadings.WithLabelValues(result).Inc()
	}
}
