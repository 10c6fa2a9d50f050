// internal/api/simulation.go
package api

import (
	"net/http"

	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/simulation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StartSimulation starts a run. Missing fields take the configured
// defaults (normal scenario, one hour, speed 10).
func (h *APIHandler) StartSimulation(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sc := h.cfg.Simulation
	in, err := data.ParseSimulation(body, data.SimulationInput{
		Scenario: sc.DefaultScenario,
		Duration: sc.DefaultDuration,
		Speed:    sc.DefaultSpeed,
	}, sc.MaxSpeed)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handle, err := h.engine.Start(r.Context(), simulation.Config{
		Scenario:        in.Scenario,
		DurationSeconds: in.Duration,
		Speed:           in.Speed,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("simulation requested", zap.String("simulation_id", handle.ID), zap.String("user", authUser(r)))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Simulation started",
		"simulation": handle,
	})
}

func (h *APIHandler) StopSimulation(w http.ResponseWriter, r *http.Request) {
	st, err := h.engine.Stop(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Simulation stopped",
		"simulation": st,
	})
}

func (h *APIHandler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	st, err := h.engine.Status(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *APIHandler) ListSimulations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"simulations": h.engine.List(),
		"scenarios":   simulation.Scenarios(),
	})
}

func (h *APIHandler) InjectAnomaly(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := data.ParseInjection(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	anomaly, err := h.engine.InjectAnomaly(r.Context(), chi.URLParam(r, "id"), simulation.Injection{
		InfrastructureType: in.InfrastructureType,
		Severity:           in.Severity,
		AnomalyType:        in.AnomalyType,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, anomaly)
}
