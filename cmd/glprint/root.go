package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "glprint",
		Short:         "Print the rendering fingerprint of this machine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.flags.configPath, "config", "c", "", "Configuration file path")
	flags.StringVarP(&ctx.flags.backend, "backend", "b", "", "Rendering backend (see 'glprint backends')")
	flags.IntVar(&ctx.flags.width, "width", 0, "Surface width in pixels")
	flags.IntVar(&ctx.flags.height, "height", 0, "Surface height in pixels")
	flags.StringVar(&ctx.flags.sink, "sink", "", "Fingerprint output: stdout or log")
	flags.StringVar(&ctx.flags.dump, "dump", "", "Write the rendered image to this file (.png, .bmp, .tiff)")
	flags.StringVar(&ctx.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&ctx.flags.logFormat, "log-format", "", "Log format: auto, text, json")

	rootCmd.AddCommand(newGenerateCommand(ctx))
	rootCmd.AddCommand(newBackendsCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
