// internal/data/models.go
package data

import "time"

// MaxReadings is the number of readings a sensor keeps, most recent first.
const MaxReadings = 100

type InfrastructureType string

const (
	Power   InfrastructureType = "power"
	Water   InfrastructureType = "water"
	Telecom InfrastructureType = "telecom"
)

// InfrastructureTypes lists every supported asset type.
var InfrastructureTypes = []InfrastructureType{Power, Water, Telecom}

func (t InfrastructureType) Valid() bool {
	switch t {
	case Power, Water, Telecom:
		return true
	}
	return false
}

// Unit returns the measurement unit readings of this type are reported in.
func (t InfrastructureType) Unit() string {
	switch t {
	case Water:
		return "psi"
	case Power:
		return "V"
	case Telecom:
		return "ms"
	}
	return ""
}

type SensorStatus string

const (
	SensorActive      SensorStatus = "active"
	SensorInactive    SensorStatus = "inactive"
	SensorMaintenance SensorStatus = "maintenance"
)

func (s SensorStatus) Valid() bool {
	return s == SensorActive || s == SensorInactive || s == SensorMaintenance
}

type InfrastructureStatus string

const (
	StatusNormal  InfrastructureStatus = "normal"
	StatusWarning InfrastructureStatus = "warning"
	StatusDanger  InfrastructureStatus = "danger"
)

func (s InfrastructureStatus) Valid() bool {
	return s == StatusNormal || s == StatusWarning || s == StatusDanger
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type AlertStatus string

const (
	AlertNew          AlertStatus = "new"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// Location is a GeoJSON point, coordinates are [longitude, latitude].
type Location struct {
	Type        string     `json:"type" yaml:"type"`
	Coordinates [2]float64 `json:"coordinates" yaml:"coordinates"`
}

func Point(lon, lat float64) Location {
	return Location{Type: "Point", Coordinates: [2]float64{lon, lat}}
}

// Reading is a single immutable observation from a sensor.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
}

type Sensor struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Type             InfrastructureType `json:"type"`
	Status           SensorStatus       `json:"status"`
	Owner            string             `json:"owner,omitempty"`
	InfrastructureID string             `json:"infrastructureId"`
	Location         Location           `json:"location"`
	Readings         []Reading          `json:"readings"` // most recent first
	LastActive       time.Time          `json:"lastActive"`
}

type Infrastructure struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Type        InfrastructureType   `json:"type"`
	Status      InfrastructureStatus `json:"status"`
	Location    Location             `json:"location"`
	Description string               `json:"description,omitempty"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Alert records a detected or injected anomaly.
type Alert struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	InfrastructureType InfrastructureType `json:"infrastructureType"`
	InfrastructureID   string             `json:"infrastructureId"`
	SensorID           string             `json:"sensorId,omitempty"`
	Location           Location           `json:"location"`
	Severity           Severity           `json:"severity"`
	Confidence         float64            `json:"confidence"`
	Status             AlertStatus        `json:"status"`
	Area               string             `json:"area"`
	CreatedAt          time.Time          `json:"createdAt"`
	AcknowledgedAt     *time.Time         `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy     string             `json:"acknowledgedBy,omitempty"`
	ResolvedAt         *time.Time         `json:"resolvedAt,omitempty"`
}

// AlertFilter narrows ListAlerts results. Zero fields match everything.
type AlertFilter struct {
	Status             AlertStatus
	Severity           Severity
	InfrastructureType InfrastructureType
	Since              time.Time
}

func (f AlertFilter) Match(a Alert) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Severity != "" && a.Severity != f.Severity {
		return false
	}
	if f.InfrastructureType != "" && a.InfrastructureType != f.InfrastructureType {
		return false
	}
	if !f.Since.IsZero() && a.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}

// SensorFilter narrows ListSensors results.
type SensorFilter struct {
	Type             InfrastructureType
	Status           SensorStatus
	Owner            string
	InfrastructureID string
}

func (f SensorFilter) Match(s Sensor) bool {
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.Owner != "" && s.Owner != f.Owner {
		return false
	}
	if f.InfrastructureID != "" && s.InfrastructureID != f.InfrastructureID {
		return false
	}
	return true
}
