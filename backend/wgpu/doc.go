// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu is a native GPU fingerprint host built on the gogpu/wgpu
// hardware abstraction layer.
//
// The host maps the WebGL 1 calls glprint issues onto WebGPU objects:
//
//	CreateShader/CompileShader  -> naga WGSL validation
//	LinkProgram                 -> shader modules, bind group and pipeline layouts
//	BufferData                  -> vertex buffer upload
//	Uniform4f                   -> 16-byte uniform buffer write
//	Clear, DrawArrays           -> one render pass each, fenced
//	ReadPixels                  -> texture-to-buffer copy with row unpadding
//
// The render pipeline is created on the first draw, once the vertex layout
// set by VertexAttribPointer is known. The color target is RGBA8Unorm, so
// readback needs no channel swizzle.
//
// Shaders are WGSL: the context reports glprint.WGSL as its shading
// language. Fingerprints from this host are therefore only comparable with
// other wgpu fingerprints.
//
// By default the host opens its own Vulkan device. [WithDeviceProvider]
// shares an existing gogpu device instead, and [WithInstance] uses a caller
// supplied HAL instance, which is how the tests run on the noop backend.
//
// Importing the package registers it with the backend registry as "wgpu".
// Build with the nogpu tag to leave it out.
package wgpu
