package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/backend"
	"github.com/gogpu/glprint/internal/config"
	"github.com/gogpu/glprint/internal/logging"
	"github.com/gogpu/glprint/internal/pixels"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Render the fingerprint triangle and print its digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx)
		},
	}
}

func runGenerate(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	glprint.SetLogger(logger)
	defer glprint.SetLogger(nil)

	host, err := selectHost(cfg)
	if err != nil {
		return err
	}
	logger.Debug("backend selected", "backend", host.Name(), "width", cfg.Width, "height", cfg.Height)

	var opts []glprint.Option
	var dumpErr error
	if cfg.Output.Dump != "" {
		opts = append(opts, glprint.WithReadback(func(rb glprint.Readback) {
			dumpErr = writeDump(cfg.Output.Dump, rb)
		}))
	}

	var sink glprint.Sink = glprint.WriterSink{W: cmd.OutOrStdout()}
	if cfg.Output.Sink == config.SinkLog {
		sink = glprint.LogSink{Logger: logger}
	}

	if err := glprint.Run(cmd.Context(), glprint.New(host, opts...), sink); err != nil {
		if errors.Is(err, glprint.ErrEnvironmentUnsupported) {
			return fmt.Errorf("backend %s cannot render here (try --backend %s): %w", host.Name(), backend.Raster, err)
		}
		return fmt.Errorf("backend %s: %w", host.Name(), err)
	}
	if dumpErr != nil {
		return dumpErr
	}
	if cfg.Output.Dump != "" {
		logger.Info("readback written", "path", cfg.Output.Dump)
	}
	return nil
}

func selectHost(cfg *config.Config) (glprint.Host, error) {
	hc := backend.HostConfig{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Timeout: cfg.Timeout(),
	}
	if cfg.Backend == "" {
		return backend.Default(hc)
	}
	return backend.Get(cfg.Backend, hc)
}

func writeDump(path string, rb glprint.Readback) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump file: %w", err)
	}
	if err := pixels.Encode(file, pixels.FormatFromPath(path), rb.Width, rb.Height, rb.Pixels); err != nil {
		file.Close()
		return fmt.Errorf("write dump %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close dump file: %w", err)
	}
	return nil
}
