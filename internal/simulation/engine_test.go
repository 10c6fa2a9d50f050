package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/ak736/GuardianX/internal/config"
	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/events"
	"github.com/ak736/GuardianX/internal/storage"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	waitFor = 2 * time.Second
	pollAt  = 5 * time.Millisecond
)

type fixture struct {
	engine  *Engine
	store   *storage.MemoryStore
	rec     *events.Recorder
	clock   clockwork.FakeClock
	water   data.Infrastructure
	power   data.Infrastructure
	sensors map[data.InfrastructureType]data.Sensor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store:   storage.NewMemoryStore(),
		rec:     &events.Recorder{},
		clock:   clockwork.NewFakeClock(),
		sensors: make(map[data.InfrastructureType]data.Sensor),
	}

	var err error
	f.water, err = f.store.CreateInfrastructure(ctx, data.Infrastructure{Name: "Hill Reservoir", Type: data.Water, Location: data.Point(-74.48, 40.04)})
	require.NoError(t, err)
	f.power, err = f.store.CreateInfrastructure(ctx, data.Infrastructure{Name: "Substation Bravo", Type: data.Power, Location: data.Point(-74.46, 40.06)})
	require.NoError(t, err)
	for _, infra := range []data.Infrastructure{f.water, f.power} {
		s, err := f.store.CreateSensor(ctx, data.Sensor{Name: infra.Name + " sensor", Type: infra.Type, InfrastructureID: infra.ID})
		require.NoError(t, err)
		f.sensors[infra.Type] = s
	}

	cfg := config.Simulation{TickIntervalMS: 5000, TickConcurrency: 4}
	f.engine = NewEngine(f.store, f.rec, cfg, zap.NewNop(), f.clock, rand.New(rand.NewSource(1)))
	t.Cleanup(f.engine.Close)
	return f
}

func (f *fixture) readings(t *testing.T, typ data.InfrastructureType) []data.Reading {
	t.Helper()
	s, err := f.store.FindSensorByID(context.Background(), f.sensors[typ].ID)
	require.NoError(t, err)
	return s.Readings
}

func (f *fixture) status(t *testing.T, id string) data.InfrastructureStatus {
	t.Helper()
	infra, err := f.store.FindInfrastructureByID(context.Background(), id)
	require.NoError(t, err)
	return infra.Status
}

func (f *fixture) alerts(t *testing.T) []data.Alert {
	t.Helper()
	alerts, err := f.store.ListAlerts(context.Background(), data.AlertFilter{})
	require.NoError(t, err)
	return alerts
}

func TestStartWithoutInfrastructureCreatesNoRun(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	e := NewEngine(store, events.Discard{}, config.Simulation{}, zap.NewNop(), clockwork.NewFakeClock(), nil)
	defer e.Close()

	_, err := e.Start(ctx, Config{Scenario: "water-leak", DurationSeconds: 60, Speed: 10})
	assert.ErrorIs(t, err, ErrNoInfrastructure)
	_, err = e.Status("sim_1")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.Empty(t, e.List())

	// Infrastructure but no active sensors.
	infra, _ := store.CreateInfrastructure(ctx, data.Infrastructure{Name: "a", Type: data.Water})
	_, err = e.Start(ctx, Config{DurationSeconds: 60, Speed: 10})
	assert.ErrorIs(t, err, ErrNoInfrastructure)

	_, _ = store.CreateSensor(ctx, data.Sensor{Name: "s", Type: data.Water, InfrastructureID: infra.ID})
	h, err := e.Start(ctx, Config{DurationSeconds: 60, Speed: 10})
	require.NoError(t, err)
	assert.Equal(t, "sim_1", h.ID, "failed starts must not consume run ids")
	assert.Equal(t, "normal", h.Config.Scenario)
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Start(context.Background(), Config{DurationSeconds: 60, Speed: 0})
	assert.ErrorIs(t, err, data.ErrValidation)
	_, err = f.engine.Start(context.Background(), Config{DurationSeconds: 0, Speed: 1})
	assert.ErrorIs(t, err, data.ErrValidation)
}

func TestTickGeneratesNormalReadings(t *testing.T) {
	f := newFixture(t)
	h, err := f.engine.Start(context.Background(), Config{Scenario: "normal", DurationSeconds: 3600, Speed: 10})
	require.NoError(t, err)
	assert.Len(t, f.rec.Filter(events.DashboardChannel, events.TypeSimulationStarted), 1)

	for i := 1; i <= 3; i++ {
		f.clock.Advance(500 * time.Millisecond)
		assert.Eventually(t, func() bool {
			return len(f.readings(t, data.Water)) == i && len(f.readings(t, data.Power)) == i
		}, waitFor, pollAt, "tick %d", i)
	}

	for _, r := range f.readings(t, data.Water) {
		assert.InDelta(t, 50, r.Value, 5)
		assert.Equal(t, "psi", r.Unit)
	}
	for _, r := range f.readings(t, data.Power) {
		assert.InDelta(t, 120, r.Value, 2)
		assert.Equal(t, "V", r.Unit)
	}
	assert.Len(t, f.rec.Filter(events.SensorChannel(f.sensors[data.Water].ID), events.TypeSensorReading), 3)

	// Simulated readings bypass the detector.
	assert.Empty(t, f.alerts(t))

	st, err := f.engine.Status(h.ID)
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, int64(1500), st.ElapsedMS)
}

func TestSnapshotIgnoresLaterSensors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})
	require.NoError(t, err)

	late, err := f.store.CreateSensor(ctx, data.Sensor{Name: "late", Type: data.Water, InfrastructureID: f.water.ID})
	require.NoError(t, err)

	f.clock.Advance(500 * time.Millisecond)
	assert.Eventually(t, func() bool { return len(f.readings(t, data.Water)) == 1 }, waitFor, pollAt)
	got, _ := f.store.FindSensorByID(ctx, late.ID)
	assert.Empty(t, got.Readings)
}

func TestWaterLeakScenarioInjects(t *testing.T) {
	f := newFixture(t)
	h, err := f.engine.Start(context.Background(), Config{Scenario: "water-leak", DurationSeconds: 3600, Speed: 10})
	require.NoError(t, err)

	f.clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool { return len(f.alerts(t)) == 1 }, waitFor, pollAt)

	alert := f.alerts(t)[0]
	assert.Equal(t, "Water Pressure Anomaly", alert.Title)
	assert.Equal(t, "Unusual pressure drop detected in water supply line.", alert.Description)
	assert.Equal(t, data.SeverityHigh, alert.Severity)
	assert.Equal(t, f.water.ID, alert.InfrastructureID)
	assert.Equal(t, f.water.Location, alert.Location)
	assert.GreaterOrEqual(t, alert.Confidence, 0.85)
	assert.LessOrEqual(t, alert.Confidence, 1.0)
	assert.Contains(t, areas, alert.Area)
	assert.Equal(t, data.StatusWarning, f.status(t, f.water.ID))
	assert.Equal(t, data.StatusNormal, f.status(t, f.power.ID))

	st, _ := f.engine.Status(h.ID)
	assert.Equal(t, 1, st.Anomalies)

	// Water readings now come from the pressure-drop band.
	before := len(f.readings(t, data.Water))
	f.clock.Advance(500 * time.Millisecond)
	require.Eventually(t, func() bool { return len(f.readings(t, data.Water)) > before }, waitFor, pollAt)
	latest := f.readings(t, data.Water)[0]
	assert.GreaterOrEqual(t, latest.Value, 15.0)
	assert.LessOrEqual(t, latest.Value, 30.0)
}

func TestStopCancelsPendingInjection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, err := f.engine.Start(ctx, Config{Scenario: "water-leak", DurationSeconds: 3600, Speed: 10})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	st, err := f.engine.Stop(ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, st.Running)
	assert.Equal(t, f.clock.Now(), st.EndTime)

	readings := len(f.readings(t, data.Water))
	f.clock.Advance(time.Hour)
	assert.Never(t, func() bool {
		return len(f.alerts(t)) > 0 || len(f.readings(t, data.Water)) != readings
	}, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, data.StatusNormal, f.status(t, f.water.ID))
}

func TestCascadingFailureOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	telecom, _ := f.store.CreateInfrastructure(ctx, data.Infrastructure{Name: "Telecommunications Point Alpha", Type: data.Telecom})
	_, _ = f.store.CreateSensor(ctx, data.Sensor{Name: "latency", Type: data.Telecom, InfrastructureID: telecom.ID})

	_, err := f.engine.Start(ctx, Config{Scenario: "cascading-failure", DurationSeconds: 3600, Speed: 10})
	require.NoError(t, err)

	f.clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool { return len(f.alerts(t)) == 1 }, waitFor, pollAt)
	assert.Equal(t, "Power Frequency Anomaly", f.alerts(t)[0].Title)
	assert.Equal(t, data.StatusWarning, f.status(t, f.power.ID), "medium injection still warns")

	f.clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool { return len(f.alerts(t)) == 2 }, waitFor, pollAt)
	assert.Equal(t, "Network Connectivity Issues", f.alerts(t)[0].Title)
	assert.Equal(t, data.StatusWarning, f.status(t, telecom.ID))

	f.clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool { return len(f.alerts(t)) == 3 }, waitFor, pollAt)
	assert.Equal(t, "Water Control System Failure", f.alerts(t)[0].Title)
	assert.Equal(t, data.StatusDanger, f.status(t, f.water.ID))
}

func TestAutoStopAfterDuration(t *testing.T) {
	f := newFixture(t)
	h, err := f.engine.Start(context.Background(), Config{DurationSeconds: 20, Speed: 10})
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateInfrastructureStatus(context.Background(), f.power.ID, data.StatusDanger))

	f.clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool {
		st, _ := f.engine.Status(h.ID)
		return !st.Running
	}, waitFor, pollAt)
	assert.Eventually(t, func() bool {
		return len(f.rec.Filter(events.DashboardChannel, events.TypeSimulationStopped)) == 1
	}, waitFor, pollAt)
	assert.Equal(t, data.StatusNormal, f.status(t, f.power.ID))
}

func TestInjectSeverityMapping(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		severity data.Severity
		want     data.InfrastructureStatus
	}{
		{data.SeverityCritical, data.StatusDanger},
		{data.SeverityHigh, data.StatusWarning},
		{data.SeverityMedium, data.StatusWarning},
		{data.SeverityLow, data.StatusWarning},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			f := newFixture(t)
			h, err := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})
			require.NoError(t, err)

			a, err := f.engine.InjectAnomaly(ctx, h.ID, Injection{data.Power, tt.severity, "voltage-drop"})
			require.NoError(t, err)
			assert.True(t, a.Active)
			assert.Equal(t, f.power.ID, a.InfrastructureID)
			assert.Equal(t, tt.want, f.status(t, f.power.ID))

			alerts := f.alerts(t)
			require.Len(t, alerts, 1)
			assert.Equal(t, "Voltage Sag Detected", alerts[0].Title)
			assert.Equal(t, tt.severity, alerts[0].Severity)
		})
	}
}

func TestInjectPublishesEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, _ := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})

	a, err := f.engine.InjectAnomaly(ctx, h.ID, Injection{data.Water, data.SeverityCritical, "turbidity"})
	require.NoError(t, err)

	anomalies := f.rec.Filter(events.DashboardChannel, events.TypeAnomaly)
	require.Len(t, anomalies, 1)
	ev := anomalies[0].Payload.(AnomalyEvent)
	assert.Equal(t, a.ID, ev.ID)
	assert.Equal(t, f.water.ID, ev.InfrastructureID)
	assert.Equal(t, f.alerts(t)[0].ID, ev.AlertID)

	assert.Len(t, f.rec.Filter(events.AlertsChannel, events.TypeNewAlert), 1)
	assert.Len(t, f.rec.Filter(events.DashboardChannel, events.TypeStatusUpdate), 1)
	assert.Len(t, f.rec.Filter(events.InfrastructureChannel(f.water.ID), events.TypeStatusUpdate), 1)

	alert := f.alerts(t)[0]
	assert.Equal(t, "Water Anomaly", alert.Title)
	assert.Equal(t, "Anomaly detected in water infrastructure.", alert.Description)
}

func TestInjectErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, _ := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})

	_, err := f.engine.InjectAnomaly(ctx, "sim_99", Injection{data.Water, data.SeverityHigh, "pressure-drop"})
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = f.engine.InjectAnomaly(ctx, h.ID, Injection{data.Telecom, data.SeverityHigh, "connectivity-loss"})
	assert.ErrorIs(t, err, ErrNoMatchingInfrastructure)
	assert.Empty(t, f.alerts(t))

	st, _ := f.engine.Status(h.ID)
	assert.Zero(t, st.Anomalies)
}

func TestStopResetsAllInfrastructure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, _ := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})

	// Created after the snapshot; the reset still reaches it.
	outside, _ := f.store.CreateInfrastructure(ctx, data.Infrastructure{Name: "Water Treatment Facility", Type: data.Water, Status: data.StatusWarning})
	_, err := f.engine.InjectAnomaly(ctx, h.ID, Injection{data.Power, data.SeverityCritical, "voltage-surge"})
	require.NoError(t, err)

	_, err = f.engine.Stop(ctx, h.ID)
	require.NoError(t, err)
	for _, id := range []string{f.water.ID, f.power.ID, outside.ID} {
		assert.Equal(t, data.StatusNormal, f.status(t, id))
	}
}

func TestStopIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, _ := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})

	first, err := f.engine.Stop(ctx, h.ID)
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateInfrastructureStatus(ctx, f.water.ID, data.StatusDanger))

	f.clock.Advance(time.Second)
	second, err := f.engine.Stop(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, first.EndTime, second.EndTime)
	assert.False(t, second.Running)
	assert.Len(t, f.rec.Filter(events.DashboardChannel, events.TypeSimulationStopped), 1)
	assert.Equal(t, data.StatusDanger, f.status(t, f.water.ID), "a repeated stop does not reset again")

	_, err = f.engine.Stop(ctx, "sim_42")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestManualInjectionIntoStoppedRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, _ := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})
	_, _ = f.engine.Stop(ctx, h.ID)

	_, err := f.engine.InjectAnomaly(ctx, h.ID, Injection{data.Water, data.SeverityHigh, "pressure-spike"})
	require.NoError(t, err)
	st, _ := f.engine.Status(h.ID)
	assert.Equal(t, 1, st.Anomalies)
	assert.False(t, st.Running)
}

func TestConcurrentRunsAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, _ := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})
	b, _ := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 5})

	f.clock.Advance(time.Second)
	// Run a ticked at 500ms and 1s (one buffered tick may coalesce); run b once.
	assert.Eventually(t, func() bool { return len(f.readings(t, data.Water)) >= 2 }, waitFor, pollAt)

	_, err := f.engine.Stop(ctx, a.ID)
	require.NoError(t, err)

	list := f.engine.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.False(t, list[0].Running)
	assert.Equal(t, b.ID, list[1].ID)
	assert.True(t, list[1].Running)
}

func TestTickFanOutKeepsPerSensorOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var ids []string
	for i := 0; i < 20; i++ {
		s, err := f.store.CreateSensor(ctx, data.Sensor{Name: fmt.Sprintf("p%d", i), Type: data.Power, InfrastructureID: f.power.ID})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	_, err := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		f.clock.Advance(500 * time.Millisecond)
		assert.Eventually(t, func() bool {
			for _, id := range ids {
				s, _ := f.store.FindSensorByID(ctx, id)
				if len(s.Readings) != i {
					return false
				}
			}
			return true
		}, waitFor, pollAt)
	}

	for _, id := range ids {
		s, _ := f.store.FindSensorByID(ctx, id)
		for j := 1; j < len(s.Readings); j++ {
			assert.True(t, s.Readings[j-1].Timestamp.After(s.Readings[j].Timestamp), "newest first")
		}
	}
}

func TestCloseHaltsRuns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, _ := f.engine.Start(ctx, Config{Scenario: "power-surge", DurationSeconds: 3600, Speed: 10})
	require.NoError(t, f.store.UpdateInfrastructureStatus(ctx, f.water.ID, data.StatusWarning))

	f.engine.Close()
	f.clock.Advance(time.Hour)
	assert.Never(t, func() bool { return len(f.alerts(t)) > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	st, _ := f.engine.Status(h.ID)
	assert.False(t, st.Running)
	assert.Equal(t, data.StatusWarning, f.status(t, f.water.ID), "close does not reset infrastructure")

	_, err := f.engine.Start(ctx, Config{DurationSeconds: 60, Speed: 1})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEngineGenerateReading(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, _ := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})
	_, err := f.engine.InjectAnomaly(ctx, h.ID, Injection{data.Power, data.SeverityCritical, "voltage-surge"})
	require.NoError(t, err)

	r, err := f.engine.GenerateReading(h.ID, f.sensors[data.Power])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, r.Value, 130.0)
	assert.LessOrEqual(t, r.Value, 145.0)

	_, err = f.engine.GenerateReading("sim_0", f.sensors[data.Power])
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStartRejectsOverlongDuration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.engine.Start(ctx, Config{DurationSeconds: 1e10, Speed: 1})
	var verr *data.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "duration", verr.Field)
	assert.Empty(t, f.engine.List())

	h, err := f.engine.Start(ctx, Config{DurationSeconds: data.MaxDurationSeconds, Speed: 1})
	require.NoError(t, err)
	f.clock.Advance(time.Millisecond)
	st, err := f.engine.Status(h.ID)
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.True(t, st.EndTime.After(st.StartTime.Add(100*365*24*time.Hour)))
}

type flakyResetStore struct {
	*storage.MemoryStore
	failReset bool
}

func (s *flakyResetStore) ResetAllInfrastructureStatus(ctx context.Context, status data.InfrastructureStatus) error {
	if s.failReset {
		return fmt.Errorf("store unavailable")
	}
	return s.MemoryStore.ResetAllInfrastructureStatus(ctx, status)
}

func TestStopRetriesFailedReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := &flakyResetStore{MemoryStore: f.store, failReset: true}
	engine := NewEngine(store, f.rec, config.Simulation{TickIntervalMS: 5000}, zap.NewNop(), f.clock, rand.New(rand.NewSource(1)))
	t.Cleanup(engine.Close)

	h, err := engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})
	require.NoError(t, err)
	_, err = engine.InjectAnomaly(ctx, h.ID, Injection{data.Water, data.SeverityCritical, "pressure-drop"})
	require.NoError(t, err)

	st, err := engine.Stop(ctx, h.ID)
	require.Error(t, err)
	assert.False(t, st.Running)
	assert.Equal(t, data.StatusDanger, f.status(t, f.water.ID))
	assert.Empty(t, f.rec.Filter(events.DashboardChannel, events.TypeSimulationStopped))

	store.failReset = false
	_, err = engine.Stop(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, data.StatusNormal, f.status(t, f.water.ID))
	assert.Len(t, f.rec.Filter(events.DashboardChannel, events.TypeSimulationStopped), 1)

	// Once reset has succeeded further stops are no-ops again.
	require.NoError(t, f.store.UpdateInfrastructureStatus(ctx, f.water.ID, data.StatusWarning))
	_, err = engine.Stop(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, data.StatusWarning, f.status(t, f.water.ID))
	assert.Len(t, f.rec.Filter(events.DashboardChannel, events.TypeSimulationStopped), 1)
}

func TestEventsCarrySimulatedTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.clock.Advance(90 * time.Minute)
	now := f.clock.Now()

	h, err := f.engine.Start(ctx, Config{DurationSeconds: 3600, Speed: 10})
	require.NoError(t, err)
	_, err = f.engine.InjectAnomaly(ctx, h.ID, Injection{data.Power, data.SeverityHigh, "voltage-drop"})
	require.NoError(t, err)

	for _, typ := range []string{events.TypeSimulationStarted, events.TypeAnomaly, events.TypeStatusUpdate} {
		evs := f.rec.Filter(events.DashboardChannel, typ)
		require.NotEmpty(t, evs, typ)
		assert.True(t, evs[0].Timestamp.Equal(now), typ)
	}
	alerts := f.rec.Filter(events.AlertsChannel, events.TypeNewAlert)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].Timestamp.Equal(f.alerts(t)[0].CreatedAt))
}
