// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReadingsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardianx_readings_ingested_total",
			Help: "Readings submitted through the ingestion API",
		},
		[]string{"type"},
	)

	ReadingsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardianx_readings_generated_total",
			Help: "Synthetic readings produced by simulation runs",
		},
		[]string{"type"},
	)

	ReadingErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guardianx_simulation_reading_errors_total",
			Help: "Per-sensor reading generation failures skipped during a tick",
		},
	)

	AnomaliesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardianx_anomalies_detected_total",
			Help: "Threshold anomalies flagged by the detector",
		},
		[]string{"type", "kind", "severity"},
	)

	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardianx_alerts_created_total",
			Help: "Alerts written to the alert log",
		},
		[]string{"source", "severity"}, // source: detector/simulation
	)

	AnomalyInjections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardianx_anomaly_injections_total",
			Help: "Anomalies injected into simulation runs",
		},
		[]string{"type", "kind"},
	)

	SimulationsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "guardianx_simulations_running",
			Help: "Simulation runs currently generating readings",
		},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "guardianx_websocket_clients",
			Help: "Connected websocket clients",
		},
	)
)
