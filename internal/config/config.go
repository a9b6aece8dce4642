package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the schemapipe CLI tool configuration
type Configuration struct {
	SchemaDir     string `koanf:"schema_dir" validate:"required"`
	VisionSchema  string `koanf:"vision_schema" validate:"required"`
	CurrentSchema string `koanf:"current_schema"`
	OutputDir     string `koanf:"output_dir" validate:"required"`
	LockPath      string `koanf:"lock_path"`
	Version       string `koanf:"version" validate:"required"`
	LogLevel      string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat     string `koanf:"log_format" validate:"oneof=json text"`
}

// Defaults returns the default configuration values
func Defaults() map[string]any {
	return map[string]any{
		"schema_dir":     "schemas",
		"vision_schema":  "schemas/app.schema.json",
		"current_schema": "",
		"output_dir":     "generated",
		"lock_path":      ".schemapipe/schema.lock.json",
		"version":        "0.1.0",
		"log_level":      "info",
		"log_format":     "text",
	}
}

// Load loads configuration from defaults, an optional local config file, and
// environment variables, in ascending priority.
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("SCHEMAPIPE_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.SchemaDir = filepath.Clean(cfg.SchemaDir)
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)

	return &cfg, nil
}

// envTransform converts environment variable names to config keys.
// Example: SCHEMAPIPE_SCHEMA_DIR -> schema_dir
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "SCHEMAPIPE_"))
}
