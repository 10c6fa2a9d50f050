// internal/simulation/catalog.go
package simulation

import (
	"fmt"
	"strings"

	"github.com/ak736/GuardianX/internal/data"
)

// Alert text for injected anomalies. The detector keeps its own wording in
// the anomaly package; the two catalogs are not shared.
var injectionTitles = map[data.InfrastructureType]map[string]string{
	data.Water: {
		"pressure-drop":          "Water Pressure Anomaly",
		"pressure-spike":         "Water Pressure Surge",
		"control-system-failure": "Water Control System Failure",
	},
	data.Power: {
		"voltage-spike":   "Power Surge Detected",
		"voltage-surge":   "Power Surge Detected",
		"voltage-drop":    "Voltage Sag Detected",
		"frequency-drift": "Power Frequency Anomaly",
	},
	data.Telecom: {
		"connectivity-loss": "Network Connectivity Issues",
		"latency-spike":     "Network Latency Anomaly",
	},
}

var injectionDescriptions = map[data.InfrastructureType]map[string]string{
	data.Water: {
		"pressure-drop":          "Unusual pressure drop detected in water supply line.",
		"pressure-spike":         "Dangerous pressure surge detected in water system.",
		"control-system-failure": "Control system unresponsive in water treatment facility.",
	},
	data.Power: {
		"voltage-spike":   "Voltage surge detected in power distribution grid.",
		"voltage-surge":   "Voltage surge detected in power distribution grid.",
		"voltage-drop":    "Voltage sag detected in electrical supply.",
		"frequency-drift": "Frequency instability detected in power grid.",
	},
	data.Telecom: {
		"connectivity-loss": "Significant packet loss detected in network backbone.",
		"latency-spike":     "Unusual latency detected in data transmission.",
	},
}

// areas are display names attached to injected alerts.
var areas = []string{
	"Downtown Area",
	"Eastern District",
	"Western Suburb",
	"North Sector",
	"Industrial Park",
	"Central Business District",
	"Residential Zone",
}

func injectionTitle(t data.InfrastructureType, kind string) string {
	if title, ok := injectionTitles[t][kind]; ok {
		return title
	}
	name := string(t)
	if name == "" {
		return "Anomaly"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " Anomaly"
}

func injectionDescription(t data.InfrastructureType, kind string) string {
	if desc, ok := injectionDescriptions[t][kind]; ok {
		return desc
	}
	return fmt.Sprintf("Anomaly detected in %s infrastructure.", t)
}
