// Package backend is the registry of fingerprint hosts.
//
// Host packages register themselves from init functions, so importing a
// host for side effects makes it selectable by name:
//
//	import (
//	    "github.com/gogpu/glprint/backend"
//	    _ "github.com/gogpu/glprint/backend/raster"
//	)
//
//	host, err := backend.Get(backend.Raster, backend.HostConfig{Width: 64, Height: 64})
//
// Zero HostConfig fields keep the host defaults. Default picks the first
// registered host in the order webgl, wgpu, raster.
package backend
