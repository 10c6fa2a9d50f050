// internal/anomaly/rules.go
package anomaly

import (
	"strings"

	"github.com/ak736/GuardianX/internal/config"
	"github.com/ak736/GuardianX/internal/data"
)

// Rule is the static threshold band for one infrastructure type.
type Rule struct {
	Low          *float64
	High         float64
	StdDev       float64 // unused by threshold detection
	MaxDeviation float64

	LowKind     string
	HighKind    string
	LowMessage  string
	HighMessage string
	severity    func(confidence float64) data.Severity
}

func float(v float64) *float64 { return &v }

// DefaultRules returns the built-in thresholds.
func DefaultRules() map[data.InfrastructureType]Rule {
	return map[data.InfrastructureType]Rule{
		data.Water: {
			Low: float(30), High: 65, StdDev: 5, MaxDeviation: 20,
			LowKind: "pressure-drop", HighKind: "pressure-surge",
			LowMessage:  "Water pressure below normal operating range",
			HighMessage: "Water pressure above normal operating range",
			severity:    waterSeverity,
		},
		data.Power: {
			Low: float(110), High: 130, StdDev: 4, MaxDeviation: 20,
			LowKind: "voltage-drop", HighKind: "voltage-surge",
			LowMessage:  "Power voltage below normal operating range",
			HighMessage: "Power voltage above normal operating range",
			severity:    powerSeverity,
		},
		data.Telecom: {
			High: 100, StdDev: 20, MaxDeviation: 100,
			HighKind:    "latency-surge",
			HighMessage: "Network latency above normal operating range",
			severity:    telecomSeverity,
		},
	}
}

// RulesFromConfig overlays configured thresholds on the defaults. Kinds,
// messages and severity tiers always come from the defaults.
func RulesFromConfig(cfg map[string]config.Rule) map[data.InfrastructureType]Rule {
	rules := DefaultRules()
	for name, c := range cfg {
		t := data.InfrastructureType(strings.ToLower(name))
		r, ok := rules[t]
		if !ok {
			continue
		}
		r.Low = c.Low
		r.High = c.High
		r.StdDev = c.StdDev
		if c.MaxDeviation > 0 {
			r.MaxDeviation = c.MaxDeviation
		}
		rules[t] = r
	}
	return rules
}

func waterSeverity(confidence float64) data.Severity {
	if confidence > 0.85 {
		return data.SeverityHigh
	}
	return data.SeverityMedium
}

func powerSeverity(confidence float64) data.Severity {
	switch {
	case confidence > 0.9:
		return data.SeverityCritical
	case confidence > 0.75:
		return data.SeverityHigh
	}
	return data.SeverityMedium
}

func telecomSeverity(confidence float64) data.Severity {
	switch {
	case confidence > 0.9:
		return data.SeverityHigh
	case confidence > 0.75:
		return data.SeverityMedium
	}
	return data.SeverityLow
}

var alertTitles = map[data.InfrastructureType]map[string]string{
	data.Water: {
		"pressure-drop":        "Water Pressure Anomaly",
		"pressure-surge":       "Water Pressure Surge",
		"pressure-fluctuation": "Water Pressure Fluctuations",
	},
	data.Power: {
		"voltage-drop":        "Power Voltage Sag",
		"voltage-surge":       "Power Surge Detected",
		"voltage-fluctuation": "Power Fluctuations",
	},
	data.Telecom: {
		"latency-surge":       "Network Latency Issues",
		"latency-fluctuation": "Network Performance Degradation",
	},
}

// AlertTitle looks up the title for a detected anomaly, falling back to
// "<Type> Anomaly".
func AlertTitle(t data.InfrastructureType, kind string) string {
	if title, ok := alertTitles[t][kind]; ok {
		return title
	}
	return genericTitle(t)
}

// genericTitle is "<Type> Anomaly" with the type capitalised.
func genericTitle(t data.InfrastructureType) string {
	s := string(t)
	if s == "" {
		return "Anomaly"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " Anomaly"
}
