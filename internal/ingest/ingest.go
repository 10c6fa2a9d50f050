// internal/ingest/ingest.go
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ak736/GuardianX/internal/alerting"
	"github.com/ak736/GuardianX/internal/anomaly"
	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/metrics"
	"github.com/ak736/GuardianX/internal/storage"
	"go.uber.org/zap"
)

// Outcome is what a reading submission returns to the caller.
type Outcome struct {
	Reading data.Reading   `json:"reading"`
	Anomaly anomaly.Result `json:"anomaly"`
}

// Service is the live ingestion path: store, then detect, then publish.
type Service struct {
	store    storage.Store
	detector *anomaly.Detector
	alerter  *alerting.Alerter
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store storage.Store, detector *anomaly.Detector, alerter *alerting.Alerter, logger *zap.Logger) *Service {
	return &Service{store: store, detector: detector, alerter: alerter, logger: logger, now: time.Now}
}

// AddReading appends a reading to the sensor's history and runs it through
// the detector. The stored reading is kept even when detection fails; a
// detector store error is logged and reported in the outcome.
func (s *Service) AddReading(ctx context.Context, sensorID string, in data.ReadingInput) (Outcome, error) {
	sensor, err := s.store.FindSensorByID(ctx, sensorID)
	if err != nil {
		return Outcome{}, err
	}

	reading := data.Reading{Timestamp: in.Timestamp, Value: in.Value, Unit: in.Unit}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = s.now()
	}
	if err := s.store.AppendReading(ctx, sensor.ID, reading); err != nil {
		return Outcome{}, fmt.Errorf("append reading: %w", err)
	}
	metrics.ReadingsIngested.WithLabelValues(string(sensor.Type)).Inc()
	s.alerter.PublishReading(sensor.ID, reading)

	res, err := s.detector.Detect(ctx, sensor, reading)
	if err != nil {
		s.logger.Error("anomaly detection failed", zap.String("sensor_id", sensor.ID), zap.Error(err))
		res.Error = err.Error()
	}
	s.alerter.ProcessDetection(sensor, res)

	return Outcome{Reading: reading, Anomaly: res}, nil
}
