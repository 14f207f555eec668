package config

import (
	"fmt"
	"slices"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"auto", "text", "json"}
	sinks      = []string{SinkStdout, SinkLog}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSurface(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateOutput()
}

func (c *Config) validateSurface() error {
	if c.Width <= 0 || c.Width > maxDimension {
		return fmt.Errorf("width must be between 1 and %d, got %d", maxDimension, c.Width)
	}
	if c.Height <= 0 || c.Height > maxDimension {
		return fmt.Errorf("height must be between 1 and %d, got %d", maxDimension, c.Height)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", logLevels, c.Logging.Level)
	}
	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", logFormats, c.Logging.Format)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if !slices.Contains(sinks, c.Output.Sink) {
		return fmt.Errorf("output.sink must be one of %v, got %q", sinks, c.Output.Sink)
	}
	return nil
}
