package adapter

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]func() Adapter)
)

// Register makes an adapter constructor available under name. Backend
// packages call it from init, so a bad registration is a programming
// error and panics: empty name, nil factory, or a name already taken.
func Register(name string, factory func() Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" {
		panic("adapter: Register with empty name")
	}
	if factory == nil {
		panic(fmt.Sprintf("adapter: Register %q with nil factory", name))
	}
	if _, dup := factories[name]; dup {
		panic(fmt.Sprintf("adapter: Register called twice for %q", name))
	}
	factories[name] = factory
}

// New constructs a fresh, unstarted adapter registered under name.
func New(name string) (Adapter, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown adapter %q (registered: %v)", name, Names())
	}
	return factory(), nil
}

// Names returns the registered adapter names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(factories))
}
