package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"shelf/internal/lookup"
)

const defaultDatabase = "collection.db"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DataDir  string       `yaml:"data_dir"`
	Database string       `yaml:"database"`
	Lookup   LookupConfig `yaml:"lookup"`
	Log      LogConfig    `yaml:"log"`
}

type LookupConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Database: defaultDatabase,
		Lookup: LookupConfig{
			Endpoint: lookup.DefaultEndpoint,
			Timeout:  10 * time.Second,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads the YAML file at path over Default. A missing file is not an
// error. SHELF_DATA_DIR and SHELF_LOG_LEVEL override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	if v := os.Getenv("SHELF_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SHELF_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if cfg.DataDir, err = ExpandPath(cfg.DataDir); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("%w: database must not be empty", ErrInvalidConfig)
	}
	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("%w: lookup.timeout must be positive, got %s", ErrInvalidConfig, c.Lookup.Timeout)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DatabasePath is Database resolved against DataDir.
func (c Config) DatabasePath() string {
	if c.Database == ":memory:" || filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(c.DataDir, c.Database)
}

func (c Config) PrefsDir() string {
	return c.DataDir
}
