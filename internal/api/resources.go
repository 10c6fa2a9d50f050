// internal/api/resources.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ak736/GuardianX/internal/alerting"
	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/events"
	"github.com/go-chi/chi/v5"
)

// Lists are served as GeoJSON feature collections for the map view.
type feature struct {
	Type       string        `json:"type"`
	Geometry   data.Location `json:"geometry"`
	Properties interface{}   `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type sensorProperties struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Type             data.InfrastructureType `json:"type"`
	Status           data.SensorStatus       `json:"status"`
	Owner            string                  `json:"owner,omitempty"`
	InfrastructureID string                  `json:"infrastructureId"`
	LastActive       time.Time               `json:"lastActive"`
}

type infrastructureProperties struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Type        data.InfrastructureType   `json:"type"`
	Status      data.InfrastructureStatus `json:"status"`
	Description string                    `json:"description,omitempty"`
}

func (h *APIHandler) ListInfrastructure(w http.ResponseWriter, r *http.Request) {
	infra, err := h.store.FindAllInfrastructure(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(infra))}
	for _, in := range infra {
		if t := r.URL.Query().Get("type"); t != "" && string(in.Type) != t {
			continue
		}
		fc.Features = append(fc.Features, feature{
			Type:     "Feature",
			Geometry: in.Location,
			Properties: infrastructureProperties{
				ID: in.ID, Name: in.Name, Type: in.Type, Status: in.Status, Description: in.Description,
			},
		})
	}
	writeJSON(w, http.StatusOK, fc)
}

func (h *APIHandler) GetInfrastructure(w http.ResponseWriter, r *http.Request) {
	infra, err := h.store.FindInfrastructureByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, infra)
}

func (h *APIHandler) CreateInfrastructure(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := data.ParseInfrastructure(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	infra, err := h.store.CreateInfrastructure(r.Context(), data.Infrastructure{
		Name:        in.Name,
		Type:        in.Type,
		Location:    *in.Location,
		Description: in.Description,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, infra)
}

// UpdateInfrastructureStatus overwrites the status and notifies subscribers.
func (h *APIHandler) UpdateInfrastructureStatus(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := data.ParseStatus(body, string(data.StatusNormal), string(data.StatusWarning), string(data.StatusDanger))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	status := data.InfrastructureStatus(in.Status)
	if err := h.store.UpdateInfrastructureStatus(r.Context(), id, status); err != nil {
		h.fail(w, r, err)
		return
	}
	infra, err := h.store.FindInfrastructureByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ev := events.New(events.TypeStatusUpdate, alerting.StatusUpdate{InfrastructureID: id, Status: status})
	h.hub.Publish(events.DashboardChannel, ev)
	h.hub.Publish(events.InfrastructureChannel(id), ev)
	writeJSON(w, http.StatusOK, infra)
}

func (h *APIHandler) ListSensors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sensors, err := h.store.ListSensors(r.Context(), data.SensorFilter{
		Type:             data.InfrastructureType(q.Get("type")),
		Status:           data.SensorStatus(q.Get("status")),
		Owner:            q.Get("owner"),
		InfrastructureID: q.Get("infrastructureId"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(sensors))}
	for _, s := range sensors {
		fc.Features = append(fc.Features, feature{
			Type:     "Feature",
			Geometry: s.Location,
			Properties: sensorProperties{
				ID: s.ID, Name: s.Name, Type: s.Type, Status: s.Status, Owner: s.Owner,
				InfrastructureID: s.InfrastructureID, LastActive: s.LastActive,
			},
		})
	}
	writeJSON(w, http.StatusOK, fc)
}

func (h *APIHandler) GetSensor(w http.ResponseWriter, r *http.Request) {
	sensor, err := h.store.FindSensorByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sensor)
}

func (h *APIHandler) CreateSensor(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := data.ParseSensor(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.store.FindInfrastructureByID(r.Context(), in.InfrastructureID); err != nil {
		h.fail(w, r, err)
		return
	}
	sensor, err := h.store.CreateSensor(r.Context(), data.Sensor{
		Name:             in.Name,
		Type:             in.Type,
		Status:           data.SensorActive,
		Owner:            in.Owner,
		InfrastructureID: in.InfrastructureID,
		Location:         *in.Location,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sensor)
}

func (h *APIHandler) UpdateSensorStatus(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := data.ParseStatus(body, string(data.SensorActive), string(data.SensorInactive), string(data.SensorMaintenance))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sensor, err := h.store.UpdateSensorStatus(r.Context(), chi.URLParam(r, "id"), data.SensorStatus(in.Status))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sensor)
}

// ListAlerts supports status, severity, infrastructureType and timeRange
// (hours) filters and returns newest first.
func (h *APIHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := data.AlertFilter{
		Status:             data.AlertStatus(q.Get("status")),
		Severity:           data.Severity(q.Get("severity")),
		InfrastructureType: data.InfrastructureType(q.Get("infrastructureType")),
	}
	if tr := q.Get("timeRange"); tr != "" {
		// Unparseable ranges are ignored.
		if hours, err := strconv.Atoi(tr); err == nil {
			filter.Since = time.Now().Add(-time.Duration(hours) * time.Hour)
		}
	}
	alerts, err := h.store.ListAlerts(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *APIHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.store.FindAlertByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

// UpdateAlertStatus acknowledges or resolves an alert. The acknowledging
// party defaults to the authenticated user.
func (h *APIHandler) UpdateAlertStatus(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := data.ParseStatus(body, string(data.AlertAcknowledged), string(data.AlertResolved))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	by := in.AcknowledgedBy
	if by == "" {
		by = authUser(r)
	}
	alert, err := h.store.UpdateAlertStatus(r.Context(), chi.URLParam(r, "id"), data.AlertStatus(in.Status), by)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}
