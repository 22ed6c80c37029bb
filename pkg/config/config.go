package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

var ErrInvalidConfig = errors.New("invalid config")

type APIConfig struct {
	Port          string `yaml:"port"`
	AllowedOrigin string `yaml:"allowedOrigin"`
}

type ClientConfig struct {
	Port         string        `yaml:"port"`
	APIURL       string        `yaml:"apiURL"`
	Timeout      time.Duration `yaml:"timeout"`
	FrontendHost string        `yaml:"frontendHost"`
}

type SimulationConfig struct {
	Games   int   `yaml:"games"`
	Workers int   `yaml:"workers"`
	Seed    int64 `yaml:"seed"`
}

type LogConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"`
}

type Config struct {
	API        APIConfig        `yaml:"api"`
	Client     ClientConfig     `yaml:"client"`
	Simulation SimulationConfig `yaml:"simulation"`
	Log        LogConfig        `yaml:"log"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			Port:          "5000",
			AllowedOrigin: "*",
		},
		Client: ClientConfig{
			Port:    "8080",
			APIURL:  "http://localhost:5000",
			Timeout: 10 * time.Second,
		},
		Simulation: SimulationConfig{
			Games: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ParseConfig overlays the YAML file at path on the defaults. An empty path yields the defaults.
func ParseConfig(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	configFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(configFile, config); err != nil {
		return nil, fmt.Errorf("unable to parse yaml config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch {
	case c.API.Port == "":
		return fmt.Errorf("%w: api.port is empty", ErrInvalidConfig)
	case c.Client.APIURL == "":
		return fmt.Errorf("%w: client.apiURL is empty", ErrInvalidConfig)
	case c.Client.Timeout <= 0:
		return fmt.Errorf("%w: client.timeout must be positive", ErrInvalidConfig)
	case c.Simulation.Games <= 0:
		return fmt.Errorf("%w: simulation.games must be positive", ErrInvalidConfig)
	case c.Simulation.Workers < 0:
		return fmt.Errorf("%w: simulation.workers must not be negative", ErrInvalidConfig)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// NewLogger builds the zap logger described by the log section.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if c.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if c.Level != "" {
		level, err := parseLevel(c.Level)
		if err != nil {
			return nil, err
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}
	return zapConfig.Build()
}

func parseLevel(text string) (zapcore.Level, error) {
	var level zapcore.Level
	err := level.UnmarshalText([]byte(text))
	return level, err
}
