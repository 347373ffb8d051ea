// Package routes is the registry for the gateway's route modules.
// Each module lives in its own subpackage and registers a mount function
// from its init; cmd/gateway selects modules with blank imports and mounts
// whatever registered.
package routes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// MountFunc attaches one module's routes to a router.
type MountFunc func(r gin.IRouter)

var (
	registryMu sync.Mutex
	registry   = map[string]MountFunc{}
)

// Register adds a named route module. Calling it twice with the same name is
// a programming error.
func Register(name string, mount MountFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("routes: module %q registered twice", name))
	}
	registry[name] = mount
}

// Mount attaches every registered module to the router and returns the
// module names in mount order (alphabetical, for stable startup logs).
func Mount(r gin.IRouter) []string {
	registryMu.Lock()
	defer registryMu.Unlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		registry[name](r)
	}
	return names
}
