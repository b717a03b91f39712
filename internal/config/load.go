package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvBackend    = "OBJDETECT_BACKEND"
	EnvModel      = "OBJDETECT_MODEL"
	EnvNames      = "OBJDETECT_NAMES"
	EnvRemoteURL  = "OBJDETECT_REMOTE_URL"
	EnvConfidence = "OBJDETECT_CONFIDENCE"
	EnvLogLevel   = "OBJDETECT_LOG_LEVEL"
)

var validate = validator.New()

// LoadConfigFile reads a YAML config on top of the defaults.
// When path is the default one and the file does not exist, defaults are returned.
func LoadConfigFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadEnv loads a .env file if present. Variables already set in the
// process environment win over the file.
func LoadEnv(path string) error {
	if path == "" {
		path = DefaultEnvPath
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides fields with OBJDETECT_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Model.Backend = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv(EnvNames); v != "" {
		c.Model.Names = v
	}
	if v := os.Getenv(EnvRemoteURL); v != "" {
		c.Model.RemoteURL = v
	}
	if v := os.Getenv(EnvConfidence); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConfidence, err)
		}
		c.Model.Confidence = f
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks field ranges and the backend specific requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed on %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Model.InputSize%32 != 0 {
		return fmt.Errorf("invalid config: model.input_size %d is not a multiple of 32", c.Model.InputSize)
	}
	return nil
}
