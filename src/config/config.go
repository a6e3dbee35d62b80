// Package config resolves where the workspace lives and how the application
// logs. Values are layered: defaults, then <data-dir>/config.yaml, then a
// .env file in the working directory, then the process environment, then
// explicit overrides from the command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the per-user data directory.
	AppName = "outliner"
	// FileName is the optional YAML file inside the data directory.
	FileName = "config.yaml"

	EnvDataDir  = "OUTLINER_DATA_DIR"
	EnvLogLevel = "OUTLINER_LOG_LEVEL"
	EnvLogFile  = "OUTLINER_LOG_FILE"
)

// Config holds the resolved settings.
type Config struct {
	DataDir string `yaml:"-" validate:"required"`
	Log     Log    `yaml:"log"`

	// Warnings lists problems that were tolerated while loading.
	Warnings []string `yaml:"-"`
}

// Log configures the zap logger and its rotating file.
type Log struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
	Console    bool   `yaml:"console"`
}

// Overrides are values given explicitly, typically from CLI flags. Empty
// fields are ignored.
type Overrides struct {
	DataDir  string
	LogLevel string
	EnvFile  string
}

// UserDataDirFunc resolves the per-user application data directory.
var UserDataDirFunc = os.UserConfigDir

// AppDataDir returns the default data directory for the application.
func AppDataDir() (string, error) {
	base, err := UserDataDirFunc()
	if err != nil {
		return "", fmt.Errorf("resolve user data directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Default returns the built-in settings for dataDir.
func Default(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		Log: Log{
			Level:      "info",
			File:       filepath.Join(dataDir, "logs", AppName+".log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load resolves the configuration.
func Load(over Overrides) (*Config, error) {
	envFile := over.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	dataDir := firstNonEmpty(over.DataDir, os.Getenv(EnvDataDir))
	if dataDir == "" {
		dir, err := AppDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	cfg := Default(dataDir)
	if err := cfg.readFile(filepath.Join(dataDir, FileName)); err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Log.File = v
	}
	if over.LogLevel != "" {
		cfg.Log.Level = over.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// readFile merges the YAML file at path. A file that cannot be read, for
// instance because the data directory is not a directory, counts as absent.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.Warnings = append(c.Warnings, fmt.Sprintf("ignoring %s: %v", path, err))
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
