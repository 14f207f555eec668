package backend

import (
	"errors"
	"time"

	"github.com/gogpu/glprint"
)

// Host names registered by the packages under backend/.
const (
	WebGL  = "webgl"
	WGPU   = "wgpu"
	Raster = "raster"
)

// ErrBackendNotAvailable is returned when a requested host is not registered.
var ErrBackendNotAvailable = errors.New("backend: not available")

// HostConfig carries the settings every host understands. Zero fields
// select the host's own defaults.
type HostConfig struct {
	Width  int
	Height int
	// Timeout bounds device waits on hosts that have them.
	Timeout time.Duration
}

// HostFactory creates a host from cfg.
type HostFactory func(cfg HostConfig) glprint.Host
