// internal/data/parser.go
package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ReadingInput is the body of a reading submission.
type ReadingInput struct {
	Value     float64
	Unit      string
	Timestamp time.Time
}

// ParseReading validates a raw reading payload. The value may be a JSON
// number or a numeric string; an optional RFC3339 timestamp is honoured.
func ParseReading(raw []byte) (ReadingInput, error) {
	var in ReadingInput

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return in, invalid("body", "cannot parse JSON")
	}

	switch v := payload["value"].(type) {
	case float64:
		in.Value = v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return in, invalid("value", "reading value is required")
		}
		in.Value = f
	default:
		return in, invalid("value", "reading value is required")
	}

	unit, _ := payload["unit"].(string)
	if strings.TrimSpace(unit) == "" {
		return in, invalid("unit", "unit is required")
	}
	in.Unit = unit

	if tsStr, ok := payload["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, tsStr); err == nil {
			in.Timestamp = t
		}
	}
	return in, nil
}

type SensorInput struct {
	Name             string             `json:"name"`
	Type             InfrastructureType `json:"type"`
	Location         *Location          `json:"location"`
	Owner            string             `json:"owner"`
	InfrastructureID string             `json:"infrastructureId"`
}

func ParseSensor(raw []byte) (SensorInput, error) {
	var in SensorInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, invalid("body", "cannot parse JSON")
	}
	switch {
	case strings.TrimSpace(in.Name) == "":
		return in, invalid("name", "name is required")
	case !in.Type.Valid():
		return in, invalid("type", "type must be water, power, or telecom")
	case in.Location == nil:
		return in, invalid("location.coordinates", "valid coordinates are required")
	case strings.TrimSpace(in.Owner) == "":
		return in, invalid("owner", "owner wallet address is required")
	case strings.TrimSpace(in.InfrastructureID) == "":
		return in, invalid("infrastructureId", "infrastructure ID is required")
	}
	in.Location.Type = "Point"
	return in, nil
}

type InfrastructureInput struct {
	Name        string             `json:"name"`
	Type        InfrastructureType `json:"type"`
	Location    *Location          `json:"location"`
	Description string             `json:"description"`
}

func ParseInfrastructure(raw []byte) (InfrastructureInput, error) {
	var in InfrastructureInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, invalid("body", "cannot parse JSON")
	}
	switch {
	case strings.TrimSpace(in.Name) == "":
		return in, invalid("name", "name is required")
	case !in.Type.Valid():
		return in, invalid("type", "type must be power, water, or telecom")
	case in.Location == nil:
		return in, invalid("location.coordinates", "valid coordinates are required")
	}
	in.Location.Type = "Point"
	return in, nil
}

type StatusInput struct {
	Status         string `json:"status"`
	AcknowledgedBy string `json:"acknowledgedBy"`
}

func ParseStatus(raw []byte, allowed ...string) (StatusInput, error) {
	var in StatusInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, invalid("body", "cannot parse JSON")
	}
	for _, a := range allowed {
		if in.Status == a {
			return in, nil
		}
	}
	return in, invalid("status", "status must be one of "+strings.Join(allowed, ", "))
}

// MaxDurationSeconds is the longest run whose length still fits in a
// time.Duration.
const MaxDurationSeconds = float64(math.MaxInt64 / int64(time.Second))

// SimulationInput is the body of a simulation start request. Missing fields
// take the supplied defaults.
type SimulationInput struct {
	Scenario string  `json:"scenario"`
	Duration float64 `json:"duration"`
	Speed    float64 `json:"speed"`
}

func ParseSimulation(raw []byte, defaults SimulationInput, maxSpeed float64) (SimulationInput, error) {
	in := defaults
	if len(strings.TrimSpace(string(raw))) > 0 {
		var body struct {
			Scenario *string  `json:"scenario"`
			Duration *float64 `json:"duration"`
			Speed    *float64 `json:"speed"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return in, invalid("body", "cannot parse JSON")
		}
		if body.Scenario != nil && *body.Scenario != "" {
			in.Scenario = *body.Scenario
		}
		if body.Duration != nil {
			in.Duration = *body.Duration
		}
		if body.Speed != nil {
			in.Speed = *body.Speed
		}
	}
	if in.Duration <= 0 {
		return in, invalid("duration", "duration must be a positive number")
	}
	if in.Duration > MaxDurationSeconds {
		return in, invalid("duration", fmt.Sprintf("duration must not exceed %g seconds", MaxDurationSeconds))
	}
	if in.Speed < 1 || in.Speed > maxSpeed || in.Speed != float64(int(in.Speed)) {
		return in, invalid("speed", fmt.Sprintf("speed must be a number between 1 and %g", maxSpeed))
	}
	return in, nil
}

type InjectionInput struct {
	InfrastructureType InfrastructureType `json:"infrastructureType"`
	Severity           Severity           `json:"severity"`
	AnomalyType        string             `json:"anomalyType"`
}

func ParseInjection(raw []byte) (InjectionInput, error) {
	var in InjectionInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, invalid("body", "cannot parse JSON")
	}
	switch {
	case !in.InfrastructureType.Valid():
		return in, invalid("infrastructureType", "infrastructure type must be power, water, or telecom")
	case !in.Severity.Valid():
		return in, invalid("severity", "severity must be low, medium, high, or critical")
	case strings.TrimSpace(in.AnomalyType) == "":
		return in, invalid("anomalyType", "anomaly type is required")
	}
	return in, nil
}
