package backend

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/glprint"
)

type entry struct {
	factory     HostFactory
	description string
}

var (
	registryMu sync.RWMutex
	hosts      = make(map[string]entry)
	// Priority order for Default (first registered wins).
	// The browser context is the reference environment; raster is the fallback.
	hostPriority = []string{WebGL, WGPU, Raster}
)

// Register registers a host factory under name. It is typically called
// from init functions in host packages. An existing registration with the
// same name is replaced.
func Register(name, description string, factory HostFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	hosts[name] = entry{factory: factory, description: description}
}

// Unregister removes a host. This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(hosts, name)
}

// Available returns the registered host names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(hosts))
	for name := range hosts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether a host with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := hosts[name]
	return ok
}

// Description returns the one-line description a host registered with.
func Description(name string) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return hosts[name].description
}

// Get returns a new host by name.
func Get(name string, cfg HostConfig) (glprint.Host, error) {
	registryMu.RLock()
	e, ok := hosts[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	return e.factory(cfg), nil
}

// Default returns the highest-priority registered host, falling back to the
// first registered name in sorted order. It returns ErrBackendNotAvailable
// when nothing is registered.
func Default(cfg HostConfig) (glprint.Host, error) {
	registryMu.RLock()
	for _, name := range hostPriority {
		if e, ok := hosts[name]; ok {
			registryMu.RUnlock()
			return e.factory(cfg), nil
		}
	}
	registryMu.RUnlock()

	names := Available()
	if len(names) == 0 {
		return nil, ErrBackendNotAvailable
	}
	return Get(names[0], cfg)
}
