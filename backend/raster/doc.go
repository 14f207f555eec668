// Package raster is a CPU fingerprint host built on the gogpu/gg software
// rasterizer.
//
// It implements the WebGL 1 subset glprint drives: GLSL ES 1.00 shaders
// with the pass-through vertex and flat-color fragment interface, one
// array buffer, triangle lists and RGBA readback. Triangles are filled with
// gg's analytic anti-aliasing, so edge pixels carry partial coverage just
// as they do on a GPU.
//
// Importing the package registers it with the backend registry as "raster".
package raster
