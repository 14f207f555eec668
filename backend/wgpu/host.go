// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Defaults for Host.
const (
	DefaultWidth   = 300
	DefaultHeight  = 150
	DefaultTimeout = 5 * time.Second
)

func init() {
	backend.Register(backend.WGPU, "native GPU via gogpu/wgpu (Vulkan)", func(cfg backend.HostConfig) glprint.Host {
		return NewHost(configOptions(cfg)...)
	})
}

// configOptions converts registry settings to options.
func configOptions(cfg backend.HostConfig) []Option {
	var opts []Option
	if cfg.Width > 0 && cfg.Height > 0 {
		opts = append(opts, WithSize(cfg.Width, cfg.Height))
	}
	opts = append(opts, WithTimeout(cfg.Timeout))
	return opts
}

// Option configures a Host.
type Option func(*Host)

// WithSize sets the render target size in pixels.
func WithSize(width, height int) Option {
	return func(h *Host) {
		h.width = width
		h.height = height
	}
}

// WithTimeout bounds each GPU fence wait.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithInstance opens devices from instance instead of a new Vulkan
// instance. The host does not destroy instance.
func WithInstance(instance hal.Instance) Option {
	return func(h *Host) {
		h.instance = instance
	}
}

// WithDeviceProvider renders on the device of an existing gogpu
// application. The provider must expose HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. The host never destroys a shared
// device.
func WithDeviceProvider(provider gpucontext.DeviceProvider) Option {
	return func(h *Host) {
		h.provider = provider
	}
}

// Host opens GPU devices and creates render-target surfaces on them.
type Host struct {
	width    int
	height   int
	timeout  time.Duration
	instance hal.Instance
	provider gpucontext.DeviceProvider
}

// NewHost creates a wgpu host.
func NewHost(opts ...Option) *Host {
	h := &Host{width: DefaultWidth, height: DefaultHeight, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns "wgpu".
func (h *Host) Name() string { return backend.WGPU }

// NewSurface opens a device and allocates the color target. Missing GPU
// support is reported as glprint.ErrEnvironmentUnsupported.
func (h *Host) NewSurface() (glprint.Surface, error) {
	if h.width <= 0 || h.height <= 0 {
		return nil, fmt.Errorf("wgpu: invalid surface size %dx%d", h.width, h.height)
	}

	dev, err := h.openDevice()
	if err != nil {
		return nil, err
	}
	s := &Surface{
		device:  dev,
		width:   uint32(h.width),
		height:  uint32(h.height),
		timeout: h.timeout,
	}
	if err := s.createTarget(); err != nil {
		dev.close()
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	glprint.Logger().Debug("wgpu: surface created", "adapter", dev.name, "width", h.width, "height", h.height)
	return s, nil
}

// device is an open HAL device and what is needed to close it.
type device struct {
	device   hal.Device
	queue    hal.Queue
	name     string
	instance hal.Instance // owned instance, nil when borrowed
	shared   bool
}

func (d *device) close() {
	if !d.shared && d.device != nil {
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
	d.device, d.queue, d.instance = nil, nil, nil
}

func (h *Host) openDevice() (*device, error) {
	if h.provider != nil {
		return sharedDevice(h.provider)
	}

	instance := h.instance
	var owned hal.Instance
	if instance == nil {
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("%w: vulkan backend not available", glprint.ErrEnvironmentUnsupported)
		}
		var err error
		instance, err = b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
		if err != nil {
			return nil, fmt.Errorf("%w: create instance: %v", glprint.ErrEnvironmentUnsupported, err)
		}
		owned = instance
	}

	selected := selectAdapter(instance.EnumerateAdapters(nil))
	if selected == nil {
		if owned != nil {
			owned.Destroy()
		}
		return nil, fmt.Errorf("%w: no GPU adapters found", glprint.ErrEnvironmentUnsupported)
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		if owned != nil {
			owned.Destroy()
		}
		return nil, fmt.Errorf("%w: open device: %v", glprint.ErrEnvironmentUnsupported, err)
	}
	return &device{
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
		instance: owned,
	}, nil
}

// selectAdapter prefers a discrete or integrated GPU and falls back to the
// first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	if len(adapters) == 0 {
		return nil
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

func sharedDevice(provider gpucontext.DeviceProvider) (*device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", glprint.ErrEnvironmentUnsupported)
	}
	d, ok := hp.HalDevice().(hal.Device)
	if !ok || d == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", glprint.ErrEnvironmentUnsupported)
	}
	q, ok := hp.HalQueue().(hal.Queue)
	if !ok || q == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", glprint.ErrEnvironmentUnsupported)
	}
	return &device{device: d, queue: q, name: "shared", shared: true}, nil
}
