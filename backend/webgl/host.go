//go:build js && wasm

package webgl

import (
	"fmt"
	"syscall/js"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/backend"
)

// Default canvas size, the HTML default for an unsized canvas.
const (
	DefaultWidth  = 300
	DefaultHeight = 150
)

func init() {
	backend.Register(backend.WebGL, "browser WebGL 1 (syscall/js)", func(cfg backend.HostConfig) glprint.Host {
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

// WithSize sets the canvas size in pixels.
func WithSize(width, height int) Option {
	return func(h *Host) {
		h.width = width
		h.height = height
	}
}

// Host creates detached canvases in the current document.
type Host struct {
	width  int
	height int
}

// NewHost creates a browser host.
func NewHost(opts ...Option) *Host {
	h := &Host{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns "webgl".
func (h *Host) Name() string { return backend.WebGL }

// NewSurface creates an off-screen canvas. Outside a page, where there is
// no document, it fails with glprint.ErrEnvironmentUnsupported.
func (h *Host) NewSurface() (glprint.Surface, error) {
	if h.width <= 0 || h.height <= 0 {
		return nil, fmt.Errorf("webgl: invalid surface size %dx%d", h.width, h.height)
	}
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return nil, fmt.Errorf("%w: no document", glprint.ErrEnvironmentUnsupported)
	}
	canvas := doc.Call("createElement", "canvas")
	canvas.Set("width", h.width)
	canvas.Set("height", h.height)
	return &Surface{canvas: canvas}, nil
}

// Surface is a detached canvas element.
type Surface struct {
	canvas   js.Value
	gl       *glContext
	released bool
}

// Context calls canvas.getContext(api) and returns nil when the browser
// has no such context or api is not glprint.ContextAPI.
func (s *Surface) Context(api string) glprint.Context {
	if api != glprint.ContextAPI || s.released {
		return nil
	}
	if s.gl != nil {
		return s.gl
	}
	v := s.canvas.Call("getContext", api)
	if !v.Truthy() {
		glprint.Logger().Debug("webgl: getContext returned null", "api", api)
		return nil
	}
	s.gl = newContext(v)
	return s.gl
}

// Release loses the GL context and removes the canvas. It is safe to call
// twice.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.gl != nil {
		s.gl.release()
		s.gl = nil
	}
	s.canvas.Call("remove")
	s.canvas = js.Undefined()
}
