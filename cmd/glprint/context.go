package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/glprint/internal/config"
)

// flagValues holds flags that override configuration values.
type flagValues struct {
	configPath string
	backend    string
	width      int
	height     int
	sink       string
	dump       string
	logLevel   string
	logFormat  string
}

// commandContext loads configuration once per invocation.
type commandContext struct {
	flags  flagValues
	config *config.Config
	path   string
}

// ensureConfig loads the configuration and applies flags that were set
// explicitly on the command line.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, path, err := config.Load(c.flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("backend") {
		cfg.Backend = c.flags.backend
	}
	if changed("width") {
		cfg.Width = c.flags.width
	}
	if changed("height") {
		cfg.Height = c.flags.height
	}
	if changed("sink") {
		cfg.Output.Sink = c.flags.sink
	}
	if changed("dump") {
		cfg.Output.Dump = c.flags.dump
	}
	if changed("log-level") {
		cfg.Logging.Level = c.flags.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = c.flags.logFormat
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c.config, c.path = cfg, path
	return cfg, nil
}
