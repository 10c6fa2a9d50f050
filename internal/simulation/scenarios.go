// internal/simulation/scenarios.go
package simulation

import (
	"time"

	"github.com/ak736/GuardianX/internal/data"
)

// step is one scripted injection, Offset in unscaled scenario time.
type step struct {
	Offset    time.Duration
	Injection Injection
}

// Scenarios without an entry (including "normal") inject nothing.
var scenarios = map[string][]step{
	"water-leak": {
		{30 * time.Second, Injection{data.Water, data.SeverityHigh, "pressure-drop"}},
	},
	"power-surge": {
		{45 * time.Second, Injection{data.Power, data.SeverityCritical, "voltage-surge"}},
	},
	"cascading-failure": {
		{20 * time.Second, Injection{data.Power, data.SeverityMedium, "frequency-drift"}},
		{50 * time.Second, Injection{data.Telecom, data.SeverityHigh, "connectivity-loss"}},
		{80 * time.Second, Injection{data.Water, data.SeverityCritical, "control-system-failure"}},
	},
}

// Scenarios lists the scripted scenario names.
func Scenarios() []string {
	return []string{"normal", "water-leak", "power-surge", "cascading-failure"}
}

// scale compresses d by the speed multiplier.
func scale(d time.Duration, speed float64) time.Duration {
	return time.Duration(float64(d) / speed)
}
