// internal/seed/seed.go
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/storage"
	"gopkg.in/yaml.v3"
)

// DemoWallet owns the demo sensors.
const DemoWallet = "FznwnHqGtEH2Eru8vMHpqr8eUhU9Mits4X2ReP59An4"

type Infrastructure struct {
	Name        string                    `yaml:"name"`
	Type        data.InfrastructureType   `yaml:"type"`
	Coordinates [2]float64                `yaml:"coordinates"` // lon, lat
	Status      data.InfrastructureStatus `yaml:"status"`
	Description string                    `yaml:"description"`
}

type Alert struct {
	Title              string                  `yaml:"title"`
	Description        string                  `yaml:"description"`
	InfrastructureType data.InfrastructureType `yaml:"infrastructure_type"`
	Severity           data.Severity           `yaml:"severity"`
	Status             data.AlertStatus        `yaml:"status"`
	Area               string                  `yaml:"area"`
	Confidence         float64                 `yaml:"confidence"`
}

// Dataset is the demo data loaded at startup. Sensors are spread round-robin
// over the infrastructure list.
type Dataset struct {
	Owner          string           `yaml:"owner"`
	Sensors        int              `yaml:"sensors"`
	Infrastructure []Infrastructure `yaml:"infrastructure"`
	Alerts         []Alert          `yaml:"alerts"`
}

func Default() Dataset {
	return Dataset{
		Owner:   DemoWallet,
		Sensors: 12,
		Infrastructure: []Infrastructure{
			{"Power Substation Alpha", data.Power, [2]float64{-74.45, 40.05}, data.StatusNormal, "Main power distribution substation for eastern grid sector"},
			{"Water Treatment Facility", data.Water, [2]float64{-74.43, 40.03}, data.StatusWarning, "Municipal water treatment and distribution center"},
			{"Telecommunications Point Alpha", data.Telecom, [2]float64{-74.44, 40.07}, data.StatusNormal, "Fiber optic backbone connection hub"},
			{"Hill Reservoir", data.Water, [2]float64{-74.48, 40.04}, data.StatusNormal, "Primary water storage reservoir for western district"},
			{"Substation Bravo", data.Power, [2]float64{-74.46, 40.06}, data.StatusNormal, "Secondary power distribution for residential areas"},
		},
		Alerts: []Alert{
			{"Water Pressure Anomaly", "Unusual pressure fluctuations detected in the main water supply line.", data.Water, data.SeverityMedium, data.AlertNew, "Downtown Area", 0.82},
			{"Power Fluctuations", "Voltage irregularities detected in the eastern district grid.", data.Power, data.SeverityHigh, data.AlertAcknowledged, "Eastern District", 0.91},
			{"Network Latency Issues", "Increased latency detected in the fiber optic backbone.", data.Telecom, data.SeverityLow, data.AlertAcknowledged, "North Sector", 0.75},
			{"Critical Water Main Leak Prediction", "AI model predicts imminent failure in water main based on pressure patterns.", data.Water, data.SeverityCritical, data.AlertResolved, "Western Suburb", 0.95},
			{"Substation Thermal Anomaly", "Thermal sensors indicate abnormal heating patterns in substation equipment.", data.Power, data.SeverityHigh, data.AlertResolved, "Industrial Park", 0.88},
		},
	}
}

// Load reads a YAML dataset file.
func Load(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer file.Close()
	return LoadFrom(file)
}

func LoadFrom(r io.Reader) (Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, err
	}
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse seed data: %w", err)
	}
	return ds, ds.Validate()
}

func (ds Dataset) Validate() error {
	for i, in := range ds.Infrastructure {
		if in.Name == "" {
			return fmt.Errorf("infrastructure[%d]: name is required", i)
		}
		if !in.Type.Valid() {
			return fmt.Errorf("infrastructure[%d]: invalid type %q", i, in.Type)
		}
	}
	for i, a := range ds.Alerts {
		if !a.InfrastructureType.Valid() {
			return fmt.Errorf("alerts[%d]: invalid infrastructure type %q", i, a.InfrastructureType)
		}
		if !a.Severity.Valid() {
			return fmt.Errorf("alerts[%d]: invalid severity %q", i, a.Severity)
		}
	}
	if ds.Sensors < 0 {
		return fmt.Errorf("sensors must not be negative")
	}
	return nil
}

type Summary struct {
	Infrastructure int
	Sensors        int
	Alerts         int
}

// sensorOffsets place sensors around their infrastructure.
var sensorOffsets = [][2]float64{
	{0.003, 0.002}, {-0.002, 0.004}, {0.004, -0.003}, {-0.004, -0.001},
}

// Apply writes ds into store. It does nothing when infrastructure already
// exists, and skips alerts when the store already holds some (the sqlite
// store keeps alerts across restarts).
func Apply(ctx context.Context, store storage.Store, ds Dataset) (Summary, error) {
	var sum Summary
	existing, err := store.FindAllInfrastructure(ctx)
	if err != nil {
		return sum, err
	}
	if len(existing) > 0 {
		return sum, nil
	}

	created := make([]data.Infrastructure, 0, len(ds.Infrastructure))
	firstOfType := make(map[data.InfrastructureType]data.Infrastructure)
	for _, in := range ds.Infrastructure {
		status := in.Status
		if status == "" {
			status = data.StatusNormal
		}
		infra, err := store.CreateInfrastructure(ctx, data.Infrastructure{
			Name:        in.Name,
			Type:        in.Type,
			Status:      status,
			Location:    data.Point(in.Coordinates[0], in.Coordinates[1]),
			Description: in.Description,
		})
		if err != nil {
			return sum, fmt.Errorf("seed infrastructure %q: %w", in.Name, err)
		}
		created = append(created, infra)
		if _, ok := firstOfType[infra.Type]; !ok {
			firstOfType[infra.Type] = infra
		}
		sum.Infrastructure++
	}

	if len(created) > 0 {
		for i := 0; i < ds.Sensors; i++ {
			infra := created[i%len(created)]
			off := sensorOffsets[i%len(sensorOffsets)]
			_, err := store.CreateSensor(ctx, data.Sensor{
				Name:             fmt.Sprintf("Sensor #%d", i+1),
				Type:             infra.Type,
				Status:           data.SensorActive,
				Owner:            ds.Owner,
				InfrastructureID: infra.ID,
				Location:         data.Point(infra.Location.Coordinates[0]+off[0], infra.Location.Coordinates[1]+off[1]),
			})
			if err != nil {
				return sum, fmt.Errorf("seed sensor %d: %w", i+1, err)
			}
			sum.Sensors++
		}
	}

	alerts, err := store.ListAlerts(ctx, data.AlertFilter{})
	if err != nil {
		return sum, err
	}
	if len(alerts) > 0 {
		return sum, nil
	}
	for _, a := range ds.Alerts {
		infra := firstOfType[a.InfrastructureType]
		id, err := store.CreateAlert(ctx, data.Alert{
			Title:              a.Title,
			Description:        a.Description,
			InfrastructureType: a.InfrastructureType,
			InfrastructureID:   infra.ID,
			Location:           infra.Location,
			Severity:           a.Severity,
			Confidence:         a.Confidence,
			Status:             data.AlertNew,
			Area:               a.Area,
		})
		if err != nil {
			return sum, fmt.Errorf("seed alert %q: %w", a.Title, err)
		}
		if a.Status != "" && a.Status != data.AlertNew {
			if _, err := store.UpdateAlertStatus(ctx, id, a.Status, ds.Owner); err != nil {
				return sum, fmt.Errorf("seed alert %q: %w", a.Title, err)
			}
		}
		sum.Alerts++
	}
	return sum, nil
}
