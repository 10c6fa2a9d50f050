// internal/simulation/generator.go
package simulation

import (
	"math/rand"
	"sync"
	"time"

	"github.com/ak736/GuardianX/internal/data"
)

// Source is the random source readings are drawn from. *rand.Rand
// satisfies it.
type Source interface {
	Float64() float64
}

// lockedSource makes a *rand.Rand safe for the concurrent tick fan-out.
type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func newSource(r *rand.Rand) *lockedSource {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &lockedSource{src: r}
}

type band struct{ lo, hi float64 }

func (b band) draw(src Source) float64 {
	return b.lo + src.Float64()*(b.hi-b.lo)
}

// normalBands are the safe operating ranges, centre +/- half width.
var normalBands = map[data.InfrastructureType]band{
	data.Water:   {45, 55},
	data.Power:   {118, 122},
	data.Telecom: {12.5, 27.5},
}

var anomalyBands = map[data.InfrastructureType]map[string]band{
	data.Water: {
		"pressure-drop":  {15, 30},
		"pressure-spike": {60, 80},
		"pressure-surge": {60, 80},
	},
	data.Power: {
		"voltage-spike": {130, 145},
		"voltage-surge": {130, 145},
		"voltage-drop":  {85, 95},
	},
	data.Telecom: {
		"connectivity-loss": {200, 1000},
	},
}

// erraticBands cover the full plausible range of a type and are used for
// injected kinds with no dedicated distribution.
var erraticBands = map[data.InfrastructureType]band{
	data.Water:   {0, 80},
	data.Power:   {80, 120},
	data.Telecom: {0, 500},
}

// GenerateReading draws one synthetic reading for sensor. The first active
// anomaly injected for the sensor's infrastructure type selects the
// distribution; with none active the value comes from the normal band.
func GenerateReading(src Source, sensor data.Sensor, anomalies []Anomaly, at time.Time) data.Reading {
	b := normalBands[sensor.Type]
	if active := activeFor(sensor.Type, anomalies); active != nil {
		var ok bool
		if b, ok = anomalyBands[sensor.Type][active.AnomalyType]; !ok {
			b = erraticBands[sensor.Type]
		}
	}
	return data.Reading{
		Timestamp: at,
		Value:     b.draw(src),
		Unit:      sensor.Type.Unit(),
	}
}

func activeFor(t data.InfrastructureType, anomalies []Anomaly) *Anomaly {
	for i := range anomalies {
		if anomalies[i].Active && anomalies[i].InfrastructureType == t {
			return &anomalies[i]
		}
	}
	return nil
}
