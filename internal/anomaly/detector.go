// internal/anomaly/detector.go
package anomaly

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ak736/GuardianX/internal/config"
	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/metrics"
	"github.com/ak736/GuardianX/internal/storage"
	"go.uber.org/zap"
)

const (
	baseConfidence = 0.5
	confidenceGain = 0.45
	maxConfidence  = 0.95

	normalMessage = "Normal operation"
	unknownArea   = "Unknown Area"
)

// Store is the part of storage the detector writes through.
type Store interface {
	FindInfrastructureByID(ctx context.Context, id string) (data.Infrastructure, error)
	CreateAlert(ctx context.Context, a data.Alert) (string, error)
	UpdateInfrastructureStatus(ctx context.Context, id string, status data.InfrastructureStatus) error
}

// Result is the outcome of checking one reading. Error carries a non-fatal
// detection failure (the reading itself is unaffected).
type Result struct {
	Anomaly     bool          `json:"anomaly"`
	Confidence  float64       `json:"confidence"`
	Severity    data.Severity `json:"severity,omitempty"`
	Message     string        `json:"message,omitempty"`
	AnomalyType string        `json:"anomalyType,omitempty"`
	AlertID     string        `json:"alert,omitempty"`
	Error       string        `json:"error,omitempty"`
}

type Detector struct {
	rules  map[data.InfrastructureType]Rule
	store  Store
	logger *zap.Logger
}

func NewDetector(cfg *config.Config, store Store, logger *zap.Logger) *Detector {
	rules := DefaultRules()
	if cfg != nil {
		rules = RulesFromConfig(cfg.Anomaly.Rules)
	}
	return &Detector{rules: rules, store: store, logger: logger}
}

// CalculateConfidence maps a deviation past a threshold to [0.5, 0.95].
func CalculateConfidence(deviation, maxDeviation float64) float64 {
	return math.Min(baseConfidence+(deviation/maxDeviation)*confidenceGain, maxConfidence)
}

// Classify checks value against the rule for t without touching the store.
func (d *Detector) Classify(t data.InfrastructureType, value float64) Result {
	rule, ok := d.rules[t]
	if !ok {
		return Result{Message: normalMessage}
	}

	var deviation float64
	var kind, message string
	switch {
	case rule.Low != nil && value < *rule.Low:
		deviation = *rule.Low - value
		kind, message = rule.LowKind, rule.LowMessage
	case value > rule.High:
		deviation = value - rule.High
		kind, message = rule.HighKind, rule.HighMessage
	default:
		return Result{Message: normalMessage}
	}

	confidence := CalculateConfidence(deviation, rule.MaxDeviation)
	return Result{
		Anomaly:     true,
		Confidence:  confidence,
		Severity:    rule.severity(confidence),
		Message:     message,
		AnomalyType: kind,
	}
}

// Detect classifies the latest reading of sensor and, when anomalous,
// records an alert. High severity sets the infrastructure to warning and
// critical to danger; lower severities leave the status untouched.
//
// An unknown infrastructure is reported in Result.Error with a nil error.
// Store failures are returned.
func (d *Detector) Detect(ctx context.Context, sensor data.Sensor, reading data.Reading) (Result, error) {
	res := d.Classify(sensor.Type, reading.Value)
	d.logger.Debug("anomaly check",
		zap.String("sensor_id", sensor.ID),
		zap.String("type", string(sensor.Type)),
		zap.Float64("value", reading.Value),
		zap.Bool("anomaly", res.Anomaly),
		zap.Float64("confidence", res.Confidence),
	)

	if !res.Anomaly || res.Confidence <= baseConfidence {
		return Result{Message: normalMessage}, nil
	}
	metrics.AnomaliesDetected.WithLabelValues(string(sensor.Type), res.AnomalyType, string(res.Severity)).Inc()

	infra, err := d.store.FindInfrastructureByID(ctx, sensor.InfrastructureID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			d.logger.Warn("associated infrastructure not found",
				zap.String("sensor_id", sensor.ID),
				zap.String("infrastructure_id", sensor.InfrastructureID))
			return Result{Error: "associated infrastructure not found"}, nil
		}
		return Result{}, fmt.Errorf("find infrastructure: %w", err)
	}

	area := infra.Name
	if area == "" {
		area = unknownArea
	}
	alert := data.Alert{
		Title:              AlertTitle(sensor.Type, res.AnomalyType),
		Description:        fmt.Sprintf("%s. Reading: %s %s.", res.Message, strconv.FormatFloat(reading.Value, 'f', -1, 64), reading.Unit),
		InfrastructureType: sensor.Type,
		InfrastructureID:   sensor.InfrastructureID,
		SensorID:           sensor.ID,
		Location:           sensor.Location,
		Severity:           res.Severity,
		Confidence:         res.Confidence,
		Status:             data.AlertNew,
		Area:               area,
	}
	id, err := d.store.CreateAlert(ctx, alert)
	if err != nil {
		return Result{}, fmt.Errorf("create alert: %w", err)
	}
	res.AlertID = id
	metrics.AlertsCreated.WithLabelValues("detector", string(res.Severity)).Inc()
	d.logger.Info("alert created",
		zap.String("alert_id", id),
		zap.String("sensor_id", sensor.ID),
		zap.String("kind", res.AnomalyType),
		zap.String("severity", string(res.Severity)))

	if status, ok := StatusForSeverity(res.Severity); ok {
		if err := d.store.UpdateInfrastructureStatus(ctx, sensor.InfrastructureID, status); err != nil {
			return res, fmt.Errorf("update infrastructure status: %w", err)
		}
	}
	return res, nil
}

// StatusForSeverity is the detector's escalation policy: only high and
// critical change infrastructure status.
func StatusForSeverity(s data.Severity) (data.InfrastructureStatus, bool) {
	switch s {
	case data.SeverityCritical:
		return data.StatusDanger, true
	case data.SeverityHigh:
		return data.StatusWarning, true
	}
	return "", false
}
