// Package glprint derives a device fingerprint from GPU rendering output.
//
// # Overview
//
// glprint draws one fixed yellow triangle on an opaque black background
// through a WebGL-shaped [Context], reads the color buffer back and hashes
// the raw RGBA bytes with SHA-256. Rasterization differs slightly between
// GPUs, drivers and rasterizers, so the hex digest identifies the device
// that produced it. Different devices are expected, but not guaranteed, to
// produce different fingerprints.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glprint"
//	    "github.com/gogpu/glprint/backend/raster"
//	)
//
//	fp, err := glprint.Generate(ctx, raster.NewHost())
//	if err != nil {
//	    // errors.Is(err, glprint.ErrEnvironmentUnsupported)
//	    // errors.Is(err, glprint.ErrPipelineInitFailed)
//	}
//	fmt.Println(fp) // 64 lowercase hex characters
//
// # Hosts
//
// A [Host] provides off-screen surfaces. Three hosts ship with the module:
//   - backend/webgl: the browser WebGL 1 context (GOOS=js GOARCH=wasm)
//   - backend/wgpu: a native GPU through gogpu/wgpu, shaders in WGSL
//   - backend/raster: a CPU rasterizer built on gogpu/gg
//
// The triangle geometry, colors and shader text are part of the
// fingerprint protocol. Fingerprints are only comparable between runs on
// the same host type.
//
// # Output
//
// [Run] hands the fingerprint to a [Sink]: [LogSink] logs it, [WriterSink]
// prints it, and webgl.ElementSink writes it into a page element.
//
// # Logging
//
// glprint is silent by default. Use [SetLogger] to receive compile and link
// diagnostics.
package glprint
