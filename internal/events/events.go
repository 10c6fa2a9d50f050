// internal/events/events.go
package events

import (
	"sync"
	"time"
)

// Shared channels.
const (
	AlertsChannel    = "alerts-updates"
	DashboardChannel = "dashboard-updates"
)

// Event types.
const (
	TypeSensorReading     = "sensor-reading"
	TypeNewAlert          = "new-alert"
	TypeStatusUpdate      = "status-update"
	TypeAnomaly           = "anomaly"
	TypeSimulationStarted = "simulation-started"
	TypeSimulationStopped = "simulation-stopped"
)

func SensorChannel(sensorID string) string {
	return "sensor-" + sensorID
}

func InfrastructureChannel(infrastructureID string) string {
	return "infrastructure-" + infrastructureID
}

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func New(eventType string, payload interface{}) Event {
	return NewAt(eventType, payload, time.Now())
}

// NewAt stamps the event with at instead of the wall clock.
func NewAt(eventType string, payload interface{}, at time.Time) Event {
	return Event{Type: eventType, Payload: payload, Timestamp: at}
}

// Publisher delivers an event to every subscriber of a channel. Publish must
// not block on slow subscribers.
type Publisher interface {
	Publish(channel string, ev Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(string, Event) {}

type Published struct {
	Channel string
	Event   Event
}

// Recorder keeps every published event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

func (r *Recorder) Publish(channel string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{Channel: channel, Event: ev})
}

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns the recorded events of one type on one channel.
func (r *Recorder) Filter(channel, eventType string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, p := range r.events {
		if p.Channel == channel && p.Event.Type == eventType {
			out = append(out, p.Event)
		}
	}
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
