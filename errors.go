package glprint

import "errors"

// Fingerprint failures. Both are terminal for a Generate call. Which shader
// stage failed is only visible in the log.
var (
	// ErrEnvironmentUnsupported is returned when no graphics context of the
	// requested API can be obtained.
	ErrEnvironmentUnsupported = errors.New("glprint: graphics environment unsupported")

	// ErrPipelineInitFailed is returned when a shader stage fails to compile
	// or the program fails to link.
	ErrPipelineInitFailed = errors.New("glprint: shader initialization failed")
)
