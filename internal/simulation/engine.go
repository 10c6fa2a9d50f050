// internal/simulation/engine.go
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/ak736/GuardianX/internal/alerting"
	"github.com/ak736/GuardianX/internal/config"
	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/events"
	"github.com/ak736/GuardianX/internal/metrics"
	"github.com/ak736/GuardianX/internal/storage"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrRunNotFound              = errors.New("simulation not found")
	ErrNoInfrastructure         = errors.New("no infrastructure or active sensors found")
	ErrNoMatchingInfrastructure = errors.New("no matching infrastructure in simulation")
	ErrClosed                   = errors.New("simulation engine closed")
)

const (
	minTickInterval = time.Millisecond

	injectedConfidenceBase  = 0.85
	injectedConfidenceRange = 0.15
)

type Config struct {
	Scenario        string  `json:"scenario"`
	DurationSeconds float64 `json:"duration"`
	Speed           float64 `json:"speed"`
}

// RunHandle identifies a started run and echoes its configuration.
type RunHandle struct {
	ID     string `json:"id"`
	Config Config `json:"config"`
}

type Injection struct {
	InfrastructureType data.InfrastructureType `json:"infrastructureType"`
	Severity           data.Severity           `json:"severity"`
	AnomalyType        string                  `json:"anomalyType"`
}

// Anomaly is an injection applied to a run. Anomalies stay active until
// the run stops.
type Anomaly struct {
	ID string `json:"id"`
	Injection
	InfrastructureID string    `json:"infrastructureId"`
	StartTime        time.Time `json:"startTime"`
	Active           bool      `json:"active"`
}

// AnomalyEvent is published on the dashboard (anomaly) and alerts
// (new-alert) channels for every injection.
type AnomalyEvent struct {
	Anomaly
	AlertID string `json:"alert"`
}

type StoppedEvent struct {
	SimulationID string `json:"simulationId"`
}

type RunStatus struct {
	ID        string    `json:"id"`
	Config    Config    `json:"config"`
	Running   bool      `json:"running"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Anomalies int       `json:"anomalies"`
	ElapsedMS int64     `json:"elapsed"`
}

// run is one simulation. Ticks hold mu for reading for their whole
// duration; injections and stop take it for writing, so once stop has
// returned no callback of the run can touch the store again.
type run struct {
	mu  sync.RWMutex
	seq int
	id  string
	cfg Config

	running      bool
	resetPending bool // halted but infrastructure not yet reset
	start        time.Time
	end          time.Time
	infra        []data.Infrastructure
	sensors      []data.Sensor
	anomalies    []Anomaly

	ticker clockwork.Ticker
	timers []clockwork.Timer
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// Engine owns the registry of simulation runs.
type Engine struct {
	store   storage.Store
	pub     events.Publisher
	alerter *alerting.Alerter
	cfg     config.Simulation
	logger  *zap.Logger
	clock   clockwork.Clock
	src     *lockedSource

	mu     sync.Mutex
	runs   map[string]*run
	seq    int
	closed bool
}

func NewEngine(store storage.Store, pub events.Publisher, cfg config.Simulation, logger *zap.Logger, clock clockwork.Clock, rng *rand.Rand) *Engine {
	if cfg.TickIntervalMS <= 0 {
		cfg.TickIntervalMS = 5000
	}
	if cfg.TickConcurrency <= 0 {
		cfg.TickConcurrency = 8
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if pub == nil {
		pub = events.Discard{}
	}
	return &Engine{
		store:   store,
		pub:     pub,
		alerter: alerting.NewAlerterWithClock(pub, logger, clock),
		cfg:     cfg,
		logger:  logger,
		clock:   clock,
		src:     newSource(rng),
		runs:    make(map[string]*run),
	}
}

// Start snapshots the infrastructure and active sensors and schedules the
// run's tick, its scenario injections and its automatic stop. All delays are
// divided by cfg.Speed. A failed precondition creates no run.
func (e *Engine) Start(ctx context.Context, cfg Config) (RunHandle, error) {
	if cfg.Speed <= 0 {
		return RunHandle{}, &data.ValidationError{Field: "speed", Message: "speed must be positive"}
	}
	if cfg.DurationSeconds <= 0 {
		return RunHandle{}, &data.ValidationError{Field: "duration", Message: "duration must be positive"}
	}
	if cfg.DurationSeconds > data.MaxDurationSeconds {
		return RunHandle{}, &data.ValidationError{Field: "duration", Message: "duration is too long"}
	}
	if cfg.Scenario == "" {
		cfg.Scenario = "normal"
	}

	infra, err := e.store.FindAllInfrastructure(ctx)
	if err != nil {
		return RunHandle{}, fmt.Errorf("load infrastructure: %w", err)
	}
	sensors, err := e.store.FindActiveSensors(ctx)
	if err != nil {
		return RunHandle{}, fmt.Errorf("load active sensors: %w", err)
	}
	if len(infra) == 0 || len(sensors) == 0 {
		return RunHandle{}, ErrNoInfrastructure
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return RunHandle{}, ErrClosed
	}

	e.seq++
	r := &run{
		seq:     e.seq,
		id:      fmt.Sprintf("sim_%d", e.seq),
		cfg:     cfg,
		running: true,
		infra:   infra,
		sensors: sensors,
		done:    make(chan struct{}),
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.start = e.clock.Now()
	duration := time.Duration(cfg.DurationSeconds * float64(time.Second))
	r.end = r.start.Add(duration)

	r.mu.Lock()
	interval := scale(time.Duration(e.cfg.TickIntervalMS)*time.Millisecond, cfg.Speed)
	if interval < minTickInterval {
		interval = minTickInterval
	}
	r.ticker = e.clock.NewTicker(interval)
	r.timers = append(r.timers, e.clock.AfterFunc(scale(duration, cfg.Speed), func() { e.expire(r) }))
	for _, st := range scenarios[cfg.Scenario] {
		r.timers = append(r.timers, e.clock.AfterFunc(scale(st.Offset, cfg.Speed), func() { e.scheduledInjection(r, st.Injection) }))
	}
	r.mu.Unlock()

	e.runs[r.id] = r
	go e.loop(r)

	handle := RunHandle{ID: r.id, Config: cfg}
	metrics.SimulationsRunning.Inc()
	e.pub.Publish(events.DashboardChannel, events.NewAt(events.TypeSimulationStarted, handle, e.clock.Now()))
	e.logger.Info("simulation started",
		zap.String("simulation_id", r.id),
		zap.String("scenario", cfg.Scenario),
		zap.Float64("duration", cfg.DurationSeconds),
		zap.Float64("speed", cfg.Speed),
		zap.Duration("tick_interval", interval),
		zap.Int("sensors", len(sensors)))
	return handle, nil
}

func (e *Engine) lookup(id string) (*run, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.runs[id]
	if !ok {
		return nil, fmt.Errorf("simulation %s: %w", id, ErrRunNotFound)
	}
	return r, nil
}

func (e *Engine) loop(r *run) {
	for {
		select {
		case <-r.done:
			return
		case <-r.ticker.Chan():
			e.tick(r)
		}
	}
}

// tick writes one reading per snapshotted sensor. A sensor whose append
// fails is logged and skipped.
func (e *Engine) tick(r *run) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.running {
		return
	}

	now := e.clock.Now()
	var g errgroup.Group
	g.SetLimit(e.cfg.TickConcurrency)
	for _, sensor := range r.sensors {
		reading := GenerateReading(e.src, sensor, r.anomalies, now)
		g.Go(func() error {
			if err := e.store.AppendReading(r.ctx, sensor.ID, reading); err != nil {
				metrics.ReadingErrors.Inc()
				e.logger.Warn("simulated reading dropped",
					zap.String("simulation_id", r.id),
					zap.String("sensor_id", sensor.ID),
					zap.Error(err))
				return nil
			}
			metrics.ReadingsGenerated.WithLabelValues(string(sensor.Type)).Inc()
			e.alerter.PublishReading(sensor.ID, reading)
			return nil
		})
	}
	_ = g.Wait()
}

// GenerateReading draws a reading for sensor using the anomalies active in
// the given run.
func (e *Engine) GenerateReading(runID string, sensor data.Sensor) (data.Reading, error) {
	r, err := e.lookup(runID)
	if err != nil {
		return data.Reading{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return GenerateReading(e.src, sensor, r.anomalies, e.clock.Now()), nil
}

func (e *Engine) scheduledInjection(r *run, inj Injection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	if _, err := e.injectLocked(r.ctx, r, inj); err != nil {
		e.logger.Warn("scheduled injection failed",
			zap.String("simulation_id", r.id),
			zap.String("anomaly_type", inj.AnomalyType),
			zap.Error(err))
	}
}

// InjectAnomaly applies inj to the first snapshotted infrastructure of the
// requested type: its status becomes danger for critical severity and
// warning otherwise, and an alert is written. Stopped runs still accept
// manual injections.
func (e *Engine) InjectAnomaly(ctx context.Context, runID string, inj Injection) (Anomaly, error) {
	r, err := e.lookup(runID)
	if err != nil {
		return Anomaly{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return e.injectLocked(ctx, r, inj)
}

func (e *Engine) injectLocked(ctx context.Context, r *run, inj Injection) (Anomaly, error) {
	var target *data.Infrastructure
	for i := range r.infra {
		if r.infra[i].Type == inj.InfrastructureType {
			target = &r.infra[i]
			break
		}
	}
	if target == nil {
		return Anomaly{}, fmt.Errorf("%s infrastructure in %s: %w", inj.InfrastructureType, r.id, ErrNoMatchingInfrastructure)
	}

	now := e.clock.Now()
	a := Anomaly{
		ID:               "anomaly_" + uuid.NewString(),
		Injection:        inj,
		InfrastructureID: target.ID,
		StartTime:        now,
		Active:           true,
	}
	r.anomalies = append(r.anomalies, a)

	status := data.StatusWarning
	if inj.Severity == data.SeverityCritical {
		status = data.StatusDanger
	}
	if err := e.store.UpdateInfrastructureStatus(ctx, target.ID, status); err != nil {
		return a, fmt.Errorf("update infrastructure status: %w", err)
	}

	alertID, err := e.store.CreateAlert(ctx, data.Alert{
		Title:              injectionTitle(inj.InfrastructureType, inj.AnomalyType),
		Description:        injectionDescription(inj.InfrastructureType, inj.AnomalyType),
		InfrastructureType: inj.InfrastructureType,
		InfrastructureID:   target.ID,
		Location:           target.Location,
		Severity:           inj.Severity,
		Confidence:         injectedConfidenceBase + e.src.Float64()*injectedConfidenceRange,
		Status:             data.AlertNew,
		Area:               areas[int(e.src.Float64()*float64(len(areas)))],
		CreatedAt:          now,
	})
	if err != nil {
		return a, fmt.Errorf("create alert: %w", err)
	}
	metrics.AnomalyInjections.WithLabelValues(string(inj.InfrastructureType), inj.AnomalyType).Inc()
	metrics.AlertsCreated.WithLabelValues("simulation", string(inj.Severity)).Inc()

	ev := AnomalyEvent{Anomaly: a, AlertID: alertID}
	e.pub.Publish(events.DashboardChannel, events.NewAt(events.TypeAnomaly, ev, e.clock.Now()))
	e.pub.Publish(events.AlertsChannel, events.NewAt(events.TypeNewAlert, ev, e.clock.Now()))
	e.alerter.PublishStatus(target.ID, status)

	e.logger.Info("anomaly injected",
		zap.String("simulation_id", r.id),
		zap.String("infrastructure_id", target.ID),
		zap.String("anomaly_type", inj.AnomalyType),
		zap.String("severity", string(inj.Severity)),
		zap.String("alert_id", alertID))
	return a, nil
}

func (e *Engine) Status(runID string) (RunStatus, error) {
	r, err := e.lookup(runID)
	if err != nil {
		return RunStatus{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.statusLocked(e.clock.Now()), nil
}

// List returns every run in start order.
func (e *Engine) List() []RunStatus {
	e.mu.Lock()
	runs := make([]*run, 0, len(e.runs))
	for _, r := range e.runs {
		runs = append(runs, r)
	}
	e.mu.Unlock()
	sort.Slice(runs, func(i, j int) bool { return runs[i].seq < runs[j].seq })

	now := e.clock.Now()
	out := make([]RunStatus, 0, len(runs))
	for _, r := range runs {
		r.mu.RLock()
		out = append(out, r.statusLocked(now))
		r.mu.RUnlock()
	}
	return out
}

func (r *run) statusLocked(now time.Time) RunStatus {
	return RunStatus{
		ID:        r.id,
		Config:    r.cfg,
		Running:   r.running,
		StartTime: r.start,
		EndTime:   r.end,
		Anomalies: len(r.anomalies),
		ElapsedMS: now.Sub(r.start).Milliseconds(),
	}
}

// Stop cancels every pending timer of the run and then resets the status of
// ALL infrastructure to normal, whatever other runs are doing. Stopping a
// stopped run returns its status unchanged unless its reset failed earlier.
func (e *Engine) Stop(ctx context.Context, runID string) (RunStatus, error) {
	r, err := e.lookup(runID)
	if err != nil {
		return RunStatus{}, err
	}
	return e.stop(ctx, r)
}

func (e *Engine) expire(r *run) {
	if _, err := e.stop(context.Background(), r); err != nil {
		e.logger.Error("automatic stop failed", zap.String("simulation_id", r.id), zap.Error(err))
	}
}

// stop halts r and resets infrastructure. A failed reset stays pending and
// is retried by the next stop of the same run.
func (e *Engine) stop(ctx context.Context, r *run) (RunStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.haltLocked(r) {
		r.resetPending = true
	}
	st := r.statusLocked(e.clock.Now())
	if !r.resetPending {
		return st, nil
	}

	if err := e.store.ResetAllInfrastructureStatus(ctx, data.StatusNormal); err != nil {
		return st, fmt.Errorf("reset infrastructure status: %w", err)
	}
	r.resetPending = false
	e.pub.Publish(events.DashboardChannel, events.NewAt(events.TypeSimulationStopped, StoppedEvent{SimulationID: r.id}, e.clock.Now()))
	e.logger.Info("simulation stopped",
		zap.String("simulation_id", r.id),
		zap.Int("anomalies", st.Anomalies),
		zap.Int64("elapsed_ms", st.ElapsedMS))
	return st, nil
}

// haltLocked cancels the run's ticker and timers. It reports false when the
// run was already stopped.
func (e *Engine) haltLocked(r *run) bool {
	if !r.running {
		return false
	}
	r.running = false
	r.end = e.clock.Now()
	r.ticker.Stop()
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
	close(r.done)
	r.cancel()
	metrics.SimulationsRunning.Dec()
	return true
}

// Close cancels every outstanding run without resetting infrastructure.
// Start fails after Close.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	runs := make([]*run, 0, len(e.runs))
	for _, r := range e.runs {
		runs = append(runs, r)
	}
	e.mu.Unlock()

	for _, r := range runs {
		r.mu.Lock()
		e.haltLocked(r)
		r.mu.Unlock()
	}
}
