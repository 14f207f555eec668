package raster

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/backend"
)

// Default surface size, matching an unsized HTML canvas.
const (
	DefaultWidth  = 300
	DefaultHeight = 150
)

func init() {
	backend.Register(backend.Raster, "CPU rasterizer (gogpu/gg)", func(cfg backend.HostConfig) glprint.Host {
		return NewHost(configOptions(cfg)...)
	})
}

// configOptions converts registry settings to options.
func configOptions(cfg backend.HostConfig) []Option {
	var opts []Option
	if cfg.Width > 0 && cfg.Height > 0 {
		opts = append(opts, WithSize(cfg.Width, cfg.Height))
	}
	return opts
}

// Option configures a Host.
type Option func(*Host)

// WithSize sets the surface size in pixels.
func WithSize(width, height int) Option {
	return func(h *Host) {
		h.width = width
		h.height = height
	}
}

// Host creates raster surfaces.
type Host struct {
	width  int
	height int
}

// NewHost creates a raster host.
func NewHost(opts ...Option) *Host {
	h := &Host{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns "raster".
func (h *Host) Name() string { return backend.Raster }

// NewSurface allocates a cleared pixmap of the configured size.
func (h *Host) NewSurface() (glprint.Surface, error) {
	if h.width <= 0 || h.height <= 0 {
		return nil, fmt.Errorf("raster: invalid surface size %dx%d", h.width, h.height)
	}
	glprint.Logger().Debug("raster: surface created", "width", h.width, "height", h.height)
	return &Surface{width: h.width, height: h.height}, nil
}

// Surface is an off-screen gg pixmap.
type Surface struct {
	width    int
	height   int
	pixmap   *gg.Pixmap
	dc       *gg.Context
	gl       *glContext
	released bool
}

// Context returns the WebGL 1 context of the surface. Only
// glprint.ContextAPI is supported.
func (s *Surface) Context(api string) glprint.Context {
	if api != glprint.ContextAPI || s.released {
		return nil
	}
	if s.gl == nil {
		s.pixmap = gg.NewPixmap(s.width, s.height)
		s.dc = gg.NewContext(s.width, s.height, gg.WithPixmap(s.pixmap))
		s.gl = newContext(s)
	}
	return s.gl
}

// Release drops the pixmap and all GL objects. It is safe to call twice.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.dc != nil {
		_ = s.dc.Close()
	}
	s.dc = nil
	s.pixmap = nil
	s.gl = nil
}
