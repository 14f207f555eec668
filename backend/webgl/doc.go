// Package webgl is the browser fingerprint host. It renders through the
// page's WebGL 1 implementation via syscall/js and is only built for
// GOOS=js GOARCH=wasm.
//
// Each surface is a canvas created with document.createElement and never
// attached to the page. Release loses the context through the
// WEBGL_lose_context extension when available and removes the canvas.
//
// The package also provides [SubtleDigester], which hashes with the
// browser's crypto.subtle, and [ElementSink], which writes the fingerprint
// into a page element.
package webgl
