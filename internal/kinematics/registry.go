package kinematics

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a fresh, uninitialized solver instance.
type Factory func() Solver

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a solver available under the given plugin name.
// It panics if the name is empty, the factory is nil, or the name is
// already taken; registration conflicts are programmer errors and
// should fail loudly at init time.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" {
		panic("kinematics: Register with empty solver name")
	}
	if factory == nil {
		panic(fmt.Sprintf("kinematics: Register %q with nil factory", name))
	}
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("kinematics: Register called twice for solver %q", name))
	}
	registry[name] = factory
}

// Open instantiates the solver registered under name. The returned
// solver is not yet initialized. An unknown name is the registry analog
// of a failed plugin load.
func Open(name string) (Solver, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("solver plugin %q is not registered (known: %v)", name, Registered())
	}
	return factory(), nil
}

// Registered returns the sorted names of all registered solvers.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
