package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GLPRINT_"

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"`
}

// Output contains configuration for fingerprint delivery.
type Output struct {
	// Sink is "stdout" or "log".
	Sink string `toml:"sink" env:"SINK"`
	// Dump, when set, receives the readback as an image file.
	Dump string `toml:"dump" env:"DUMP"`
}

// Config encapsulates all configuration values for the glprint CLI.
type Config struct {
	// Backend names a registered host. Empty selects the registry default.
	Backend        string  `toml:"backend" env:"BACKEND"`
	Width          int     `toml:"width" env:"WIDTH"`
	Height         int     `toml:"height" env:"HEIGHT"`
	TimeoutSeconds int     `toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	Logging        Logging `toml:"logging" envPrefix:"LOG_"`
	Output         Output  `toml:"output" envPrefix:"OUTPUT_"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultConfigPath returns the absolute path of the default configuration
// file.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, "glprint", "config.toml"), nil
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path uses DefaultConfigPath if that file exists;
// an explicit path must exist. It returns the file that was read, or "".
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}
	if resolved != "" {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", err
		}
	}

	// Ignore errors - the .env file might not exist and that's ok
	_ = godotenv.Load()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, "", fmt.Errorf("parse environment: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("stat config: %w", err)
		}
		return path, nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		// No home or config dir: run on defaults.
		return "", nil
	}
	info, err := os.Stat(defaultPath)
	switch {
	case err == nil && !info.IsDir():
		return defaultPath, nil
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return "", nil
	default:
		return "", fmt.Errorf("stat config: %w", err)
	}
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Normalize trims and lower-cases enumerated values. Callers that modify
// a loaded Config call Normalize and Validate again.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Output.Sink = strings.ToLower(strings.TrimSpace(c.Output.Sink))
	c.Output.Dump = strings.TrimSpace(c.Output.Dump)
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
}
