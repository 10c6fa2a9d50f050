// internal/alerting/alerter.go
package alerting

import (
	"github.com/ak736/GuardianX/internal/anomaly"
	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/events"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// StatusUpdate is the dashboard payload for an infrastructure status change.
type StatusUpdate struct {
	InfrastructureID string                    `json:"infrastructureId"`
	Status           data.InfrastructureStatus `json:"status"`
}

// ReadingEvent is published on a sensor's channel for every stored reading.
type ReadingEvent struct {
	SensorID string       `json:"sensorId"`
	Reading  data.Reading `json:"reading"`
}

// AlertEvent is published on the alerts channel for a detector alert.
type AlertEvent struct {
	anomaly.Result
	SensorID         string `json:"sensorId"`
	InfrastructureID string `json:"infrastructureId"`
}

// Alerter fans detection results out to realtime subscribers.
type Alerter struct {
	pub    events.Publisher
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewAlerter publishes through pub; a nil pub discards every event.
func NewAlerter(pub events.Publisher, logger *zap.Logger) *Alerter {
	return NewAlerterWithClock(pub, logger, clockwork.NewRealClock())
}

// NewAlerterWithClock stamps events with clock, so simulated events carry
// simulated time.
func NewAlerterWithClock(pub events.Publisher, logger *zap.Logger, clock clockwork.Clock) *Alerter {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Alerter{pub: pub, clock: clock, logger: logger}
}

func (a *Alerter) event(eventType string, payload interface{}) events.Event {
	return events.NewAt(eventType, payload, a.clock.Now())
}

func (a *Alerter) PublishReading(sensorID string, r data.Reading) {
	a.pub.Publish(events.SensorChannel(sensorID), a.event(events.TypeSensorReading, ReadingEvent{SensorID: sensorID, Reading: r}))
}

// ProcessDetection publishes a new-alert when the detector created one, and
// a status update when the severity was high enough to change the
// infrastructure status.
func (a *Alerter) ProcessDetection(sensor data.Sensor, res anomaly.Result) {
	if !res.Anomaly || res.AlertID == "" {
		return
	}

	a.logger.Debug("publishing alert", zap.String("alert_id", res.AlertID), zap.String("severity", string(res.Severity)))
	a.pub.Publish(events.AlertsChannel, a.event(events.TypeNewAlert, AlertEvent{
		Result:           res,
		SensorID:         sensor.ID,
		InfrastructureID: sensor.InfrastructureID,
	}))

	status, ok := anomaly.StatusForSeverity(res.Severity)
	if !ok {
		return
	}
	a.PublishStatus(sensor.InfrastructureID, status)
}

// PublishStatus notifies the dashboard and the infrastructure's own channel.
func (a *Alerter) PublishStatus(infrastructureID string, status data.InfrastructureStatus) {
	ev := a.event(events.TypeStatusUpdate, StatusUpdate{InfrastructureID: infrastructureID, Status: status})
	a.pub.Publish(events.DashboardChannel, ev)
	a.pub.Publish(events.InfrastructureChannel(infrastructureID), ev)
}
