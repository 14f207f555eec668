package config

const (
	defaultWidth          = 300
	defaultHeight         = 150
	defaultTimeoutSeconds = 5
	defaultLogLevel       = "info"
	defaultLogFormat      = "auto"
	defaultSink           = SinkStdout

	// maxDimension bounds the surface size; larger canvases fail on most
	// WebGL implementations.
	maxDimension = 16384
)

// Output sinks.
const (
	SinkStdout = "stdout"
	SinkLog    = "log"
)

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Width:          defaultWidth,
		Height:         defaultHeight,
		TimeoutSeconds: defaultTimeoutSeconds,
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Output: Output{
			Sink: defaultSink,
		},
	}
}
