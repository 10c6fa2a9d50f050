// internal/storage/memory.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ak736/GuardianX/internal/data"
	"github.com/google/uuid"
)

// ErrNotFound is returned (wrapped) for unknown sensor, infrastructure or
// alert ids.
var ErrNotFound = errors.New("not found")

// Store is everything the detector, the simulation engine and the API need
// from persistence.
type Store interface {
	FindSensorByID(ctx context.Context, id string) (data.Sensor, error)
	FindActiveSensors(ctx context.Context) ([]data.Sensor, error)
	ListSensors(ctx context.Context, filter data.SensorFilter) ([]data.Sensor, error)
	CreateSensor(ctx context.Context, s data.Sensor) (data.Sensor, error)
	UpdateSensorStatus(ctx context.Context, id string, status data.SensorStatus) (data.Sensor, error)
	// AppendReading pushes r to the front of the sensor's history, truncates
	// it to data.MaxReadings and stamps LastActive.
	AppendReading(ctx context.Context, sensorID string, r data.Reading) error

	FindInfrastructureByID(ctx context.Context, id string) (data.Infrastructure, error)
	FindAllInfrastructure(ctx context.Context) ([]data.Infrastructure, error)
	CreateInfrastructure(ctx context.Context, in data.Infrastructure) (data.Infrastructure, error)
	UpdateInfrastructureStatus(ctx context.Context, id string, status data.InfrastructureStatus) error
	ResetAllInfrastructureStatus(ctx context.Context, status data.InfrastructureStatus) error

	CreateAlert(ctx context.Context, a data.Alert) (string, error)
	FindAlertByID(ctx context.Context, id string) (data.Alert, error)
	ListAlerts(ctx context.Context, filter data.AlertFilter) ([]data.Alert, error)
	UpdateAlertStatus(ctx context.Context, id string, status data.AlertStatus, by string) (data.Alert, error)
}

type MemoryStore struct {
	mu       sync.RWMutex
	sensors  map[string]*data.Sensor
	infra    map[string]*data.Infrastructure
	alerts   []data.Alert
	capacity int
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sensors:  make(map[string]*data.Sensor),
		infra:    make(map[string]*data.Infrastructure),
		capacity: data.MaxReadings,
		now:      time.Now,
	}
}

func copySensor(s *data.Sensor) data.Sensor {
	out := *s
	out.Readings = make([]data.Reading, len(s.Readings))
	copy(out.Readings, s.Readings)
	return out
}

func (s *MemoryStore) FindSensorByID(_ context.Context, id string) (data.Sensor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sensor, ok := s.sensors[id]
	if !ok {
		return data.Sensor{}, fmt.Errorf("sensor %s: %w", id, ErrNotFound)
	}
	return copySensor(sensor), nil
}

func (s *MemoryStore) FindActiveSensors(ctx context.Context) ([]data.Sensor, error) {
	return s.ListSensors(ctx, data.SensorFilter{Status: data.SensorActive})
}

func (s *MemoryStore) ListSensors(_ context.Context, filter data.SensorFilter) ([]data.Sensor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]data.Sensor, 0, len(s.sensors))
	for _, sensor := range s.sensors {
		if filter.Match(*sensor) {
			result = append(result, copySensor(sensor))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) CreateSensor(_ context.Context, sensor data.Sensor) (data.Sensor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sensor.ID == "" {
		sensor.ID = uuid.NewString()
	}
	if sensor.Status == "" {
		sensor.Status = data.SensorActive
	}
	if sensor.LastActive.IsZero() {
		sensor.LastActive = s.now()
	}
	if len(sensor.Readings) > s.capacity {
		sensor.Readings = sensor.Readings[:s.capacity]
	}
	stored := copySensor(&sensor)
	s.sensors[sensor.ID] = &stored
	return copySensor(&stored), nil
}

func (s *MemoryStore) UpdateSensorStatus(_ context.Context, id string, status data.SensorStatus) (data.Sensor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sensor, ok := s.sensors[id]
	if !ok {
		return data.Sensor{}, fmt.Errorf("sensor %s: %w", id, ErrNotFound)
	}
	sensor.Status = status
	sensor.LastActive = s.now()
	return copySensor(sensor), nil
}

func (s *MemoryStore) AppendReading(_ context.Context, sensorID string, r data.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sensor, ok := s.sensors[sensorID]
	if !ok {
		return fmt.Errorf("sensor %s: %w", sensorID, ErrNotFound)
	}

	n := len(sensor.Readings) + 1
	if n > s.capacity {
		n = s.capacity
	}
	readings := make([]data.Reading, n)
	readings[0] = r
	// Drop the oldest reading on overflow.
	copy(readings[1:], sensor.Readings)
	sensor.Readings = readings
	sensor.LastActive = s.now()
	return nil
}

func (s *MemoryStore) FindInfrastructureByID(_ context.Context, id string) (data.Infrastructure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infra, ok := s.infra[id]
	if !ok {
		return data.Infrastructure{}, fmt.Errorf("infrastructure %s: %w", id, ErrNotFound)
	}
	return *infra, nil
}

func (s *MemoryStore) FindAllInfrastructure(_ context.Context) ([]data.Infrastructure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]data.Infrastructure, 0, len(s.infra))
	for _, infra := range s.infra {
		result = append(result, *infra)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) CreateInfrastructure(_ context.Context, in data.Infrastructure) (data.Infrastructure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Status == "" {
		in.Status = data.StatusNormal
	}
	in.UpdatedAt = s.now()
	stored := in
	s.infra[in.ID] = &stored
	return in, nil
}

func (s *MemoryStore) UpdateInfrastructureStatus(_ context.Context, id string, status data.InfrastructureStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	infra, ok := s.infra[id]
	if !ok {
		return fmt.Errorf("infrastructure %s: %w", id, ErrNotFound)
	}
	infra.Status = status
	infra.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) ResetAllInfrastructureStatus(_ context.Context, status data.InfrastructureStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, infra := range s.infra {
		infra.Status = status
		infra.UpdatedAt = now
	}
	return nil
}

func (s *MemoryStore) CreateAlert(_ context.Context, a data.Alert) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendAlertLocked(&a)
	return a.ID, nil
}

func (s *MemoryStore) appendAlertLocked(a *data.Alert) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = data.AlertNew
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	s.alerts = append(s.alerts, *a)
}

func (s *MemoryStore) FindAlertByID(_ context.Context, id string) (data.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return data.Alert{}, fmt.Errorf("alert %s: %w", id, ErrNotFound)
}

// ListAlerts returns matching alerts, newest first.
func (s *MemoryStore) ListAlerts(_ context.Context, filter data.AlertFilter) ([]data.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]data.Alert, 0)
	for i := len(s.alerts) - 1; i >= 0; i-- {
		if filter.Match(s.alerts[i]) {
			result = append(result, s.alerts[i])
		}
	}
	return result, nil
}

func (s *MemoryStore) UpdateAlertStatus(_ context.Context, id string, status data.AlertStatus, by string) (data.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}
		applyAlertStatus(&s.alerts[i], status, by, s.now())
		return s.alerts[i], nil
	}
	return data.Alert{}, fmt.Errorf("alert %s: %w", id, ErrNotFound)
}

// applyAlertStatus stamps the acknowledge/resolve times the first time an
// alert enters that state.
func applyAlertStatus(a *data.Alert, status data.AlertStatus, by string, now time.Time) {
	a.Status = status
	switch status {
	case data.AlertAcknowledged:
		if a.AcknowledgedAt == nil {
			a.AcknowledgedAt = &now
			if by != "" {
				a.AcknowledgedBy = by
			}
		}
	case data.AlertResolved:
		if a.ResolvedAt == nil {
			a.ResolvedAt = &now
		}
	}
}
