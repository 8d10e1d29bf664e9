package dns

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-logr/logr"
)

// Factory is a constructor function that client packages register to create themselves.
type Factory func(log logr.Logger, settings map[string]string) (Client, error)

var (
	mu        sync.Mutex
	factories = make(map[string]Factory)
)

// Register is called by client packages in their init() to self-register.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("dns: provider %q already registered", name))
	}
	factories[name] = f
}

// Registered returns the names of all registered providers, sorted.
func Registered() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewClient looks up the named provider in the registry and creates a client for it.
func NewClient(name string, log logr.Logger, settings map[string]string) (Client, error) {
	mu.Lock()
	f, ok := factories[name]
	mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unsupported DNS provider: %q (registered: %v)", name, Registered())
	}
	return f(log, settings)
}
