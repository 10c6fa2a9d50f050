// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ak736/GuardianX/internal/auth"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		DataPort    int    `mapstructure:"data_port"`
		UIPort      int    `mapstructure:"ui_port"`
		FrontendURL string `mapstructure:"frontend_url"`
	} `mapstructure:"server"`
	Anomaly struct {
		Rules map[string]Rule `mapstructure:"rules"`
	} `mapstructure:"anomaly"`
	Simulation Simulation `mapstructure:"simulation"`
	Storage    struct {
		Driver     string `mapstructure:"driver"` // memory or sqlite
		SQLitePath string `mapstructure:"sqlite_path"`
	} `mapstructure:"storage"`
	Logging Logging     `mapstructure:"logging"`
	Auth    auth.Config `mapstructure:"auth"`
	Seed    struct {
		Enabled bool   `mapstructure:"enabled"`
		File    string `mapstructure:"file"`
	} `mapstructure:"seed"`
}

// Rule is a static threshold band for one infrastructure type. Low is nil
// when the type has no lower bound. StdDev is carried for a future
// rolling-window detector and is not read by threshold detection.
type Rule struct {
	Low          *float64 `mapstructure:"low"`
	High         float64  `mapstructure:"high"`
	StdDev       float64  `mapstructure:"std_dev"`
	MaxDeviation float64  `mapstructure:"max_deviation"`
}

type Simulation struct {
	TickIntervalMS  int     `mapstructure:"tick_interval_ms"`
	MaxSpeed        float64 `mapstructure:"max_speed"`
	TickConcurrency int     `mapstructure:"tick_concurrency"`
	DefaultScenario string  `mapstructure:"default_scenario"`
	DefaultDuration float64 `mapstructure:"default_duration"`
	DefaultSpeed    float64 `mapstructure:"default_speed"`
}

type Logging struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or console
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// Load reads config.yaml from path (if present), then GUARDIANX_* environment
// overrides, on top of the built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("GUARDIANX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or env is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.data_port", 8080)
	v.SetDefault("server.ui_port", 5001)
	v.SetDefault("server.frontend_url", "http://localhost:3000")

	v.SetDefault("anomaly.rules", map[string]interface{}{
		"water":   map[string]interface{}{"low": 30.0, "high": 65.0, "std_dev": 5.0, "max_deviation": 20.0},
		"power":   map[string]interface{}{"low": 110.0, "high": 130.0, "std_dev": 4.0, "max_deviation": 20.0},
		"telecom": map[string]interface{}{"high": 100.0, "std_dev": 20.0, "max_deviation": 100.0},
	})

	v.SetDefault("simulation.tick_interval_ms", 5000)
	v.SetDefault("simulation.max_speed", 100)
	v.SetDefault("simulation.tick_concurrency", 8)
	v.SetDefault("simulation.default_scenario", "normal")
	v.SetDefault("simulation.default_duration", 3600)
	v.SetDefault("simulation.default_speed", 10)

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.sqlite_path", "guardianx.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 10)
	v.SetDefault("logging.max_age", 30)

	v.SetDefault("auth.dev_mode", true)
	v.SetDefault("auth.jwt_secret", "guardianx-dev-secret")
	v.SetDefault("auth.jwt_expiration", 60)
	v.SetDefault("auth.api_keys", []string{})

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.file", "")
}

func (c *Config) Validate() error {
	if c.Storage.Driver != "memory" && c.Storage.Driver != "sqlite" {
		return fmt.Errorf("storage.driver must be memory or sqlite, got %q", c.Storage.Driver)
	}
	if c.Simulation.TickIntervalMS <= 0 {
		return fmt.Errorf("simulation.tick_interval_ms must be positive")
	}
	if c.Simulation.MaxSpeed < 1 {
		return fmt.Errorf("simulation.max_speed must be at least 1")
	}
	for name, r := range c.Anomaly.Rules {
		if r.MaxDeviation <= 0 {
			return fmt.Errorf("anomaly.rules.%s.max_deviation must be positive", name)
		}
		if r.Low != nil && *r.Low >= r.High {
			return fmt.Errorf("anomaly.rules.%s: low must be below high", name)
		}
	}
	return nil
}
