// Package config holds server settings, loaded from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/lqsky7/leetfeedback/pkg/model"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds configuration for the leetfeedback server.
type ServerConfig struct {
	Addr        string         `yaml:"addr"`         // Listen address (default ":8080")
	LogLevel    string         `yaml:"log_level"`    // debug, info, warn, error
	LogFormat   string         `yaml:"log_format"`   // text, json
	DBPath      string         `yaml:"db_path"`      // SQLite path (default ~/.leetfeedback/leetfeedback.db, ":memory:" for testing)
	CatalogPath string         `yaml:"catalog_path"` // Problem file used to seed an empty store
	Schedule    ScheduleConfig `yaml:"schedule"`
}

// ScheduleConfig holds the defaults applied when a schedule request omits them.
type ScheduleConfig struct {
	TargetCount int             `yaml:"target_count"`
	FocusMode   model.FocusMode `yaml:"focus_mode"`
	// Jitter perturbs scores so equal-score problems rotate between requests.
	Jitter bool `yaml:"jitter"`
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		Schedule: ScheduleConfig{
			TargetCount: 5,
			FocusMode:   model.FocusReview,
		},
	}
}

// LoadFile reads a YAML config file on top of the defaults.
// Keys missing from the file keep their default values.
func LoadFile(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c ServerConfig) Validate() error {
	var details []model.FieldError
	if c.Addr == "" {
		details = append(details, model.FieldError{Field: "addr", Message: "required"})
	}
	if c.Schedule.TargetCount < 0 {
		details = append(details, model.FieldError{Field: "schedule.target_count", Message: "must not be negative"})
	}
	if len(details) > 0 {
		return model.NewValidationError("invalid server config", details...)
	}
	return nil
}
