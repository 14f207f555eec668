// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/internal/pixels"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// targetFormat is the color target format. RGBA byte order matches WebGL
// readback directly.
const targetFormat = gputypes.TextureFormatRGBA8Unorm

// Surface is an off-screen RGBA8 render target on a HAL device.
type Surface struct {
	device  *device
	width   uint32
	height  uint32
	timeout time.Duration

	texture hal.Texture
	view    hal.TextureView
	gl      *glContext

	released bool
}

func (s *Surface) createTarget() error {
	tex, err := s.device.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "glprint_target",
		Size:          hal.Extent3D{Width: s.width, Height: s.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	view, err := s.device.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "glprint_target_view",
	})
	if err != nil {
		s.device.device.DestroyTexture(tex)
		return fmt.Errorf("create target view: %w", err)
	}
	s.texture, s.view = tex, view
	return nil
}

// Context returns the WebGL-shaped context of the surface. Only
// glprint.ContextAPI is supported.
func (s *Surface) Context(api string) glprint.Context {
	if api != glprint.ContextAPI || s.released {
		return nil
	}
	if s.gl == nil {
		s.gl = newContext(s)
	}
	return s.gl
}

// Release destroys every GPU object of the surface, then the device unless
// it is shared. It is safe to call twice.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.gl != nil {
		s.gl.destroy()
		s.gl = nil
	}
	d := s.device.device
	if s.view != nil {
		d.DestroyTextureView(s.view)
	}
	if s.texture != nil {
		d.DestroyTexture(s.texture)
	}
	s.view, s.texture = nil, nil
	s.device.close()
}

// pass records one render pass on the target and waits for it.
func (s *Surface) pass(label string, loadOp gputypes.LoadOp, clear gputypes.Color, record func(rp hal.RenderPassEncoder)) error {
	return s.submit(label, func(encoder hal.CommandEncoder) error {
		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: label,
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       s.view,
				LoadOp:     loadOp,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clear,
			}},
		})
		if record != nil {
			record(rp)
		}
		rp.End()
		return nil
	})
}

// submit encodes one command buffer, submits it and waits on a fence.
func (s *Surface) submit(label string, encode func(encoder hal.CommandEncoder) error) error {
	d, q := s.device.device, s.device.queue

	encoder, err := d.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	if err := encode(encoder); err != nil {
		encoder.DiscardEncoding()
		return err
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.FreeCommandBuffer(cmdBuf)

	fence, err := d.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer d.DestroyFence(fence)

	if err := q.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := d.Wait(fence, 1, s.timeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// readTarget copies the whole target to a staging buffer and returns
// tightly packed rows in GL order (bottom-up).
func (s *Surface) readTarget() ([]byte, error) {
	d, q := s.device.device, s.device.queue
	w, h := s.width, s.height
	alignedBytesPerRow := uint32(pixels.AlignedBytesPerRow(int(w)))
	stagingBufSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := d.CreateBuffer(&hal.BufferDescriptor{
		Label: "glprint_staging",
		Size:  stagingBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer d.DestroyBuffer(stagingBuf)

	err = s.submit("glprint_readback", func(encoder hal.CommandEncoder) error {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: s.texture,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})
		encoder.CopyTextureToBuffer(s.texture, stagingBuf, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
			TextureBase:  hal.ImageCopyTexture{Texture: s.texture, MipLevel: 0},
			Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		}})
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: s.texture,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
		return nil
	})
	if err != nil {
		return nil, err
	}

	readback := make([]byte, stagingBufSize)
	if err := q.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	tight := pixels.Unpad(readback, int(w), int(h), int(alignedBytesPerRow))
	// Texture rows are top-down; GL readback starts at the bottom row.
	pixels.FlipRows(tight, int(w), int(h))
	return tight, nil
}
