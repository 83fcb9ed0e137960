package host

import (
	"sort"
	"sync"

	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/plugrt/plugrt/pkg/framework/plugin"
	"github.com/plugrt/plugrt/pkg/framework/wrapper"
)

// Builder constructs a fresh plugin instance.
type Builder func() wrapper.Instance

// Catalog is the set of plugins a host can load, keyed by short name.
type Catalog struct {
	mu       sync.Mutex
	builders map[string]Builder
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{builders: make(map[string]Builder)}
}

// Register adds a plugin under name. Re-registering a name replaces
// the previous builder.
func (c *Catalog) Register(name string, b Builder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builders[name] = b
}

// New constructs a fresh instance of the named plugin.
func (c *Catalog) New(name string) (wrapper.Instance, error) {
	c.mu.Lock()
	b, ok := c.builders[name]
	c.mu.Unlock()
	if !ok {
		return nil, errors.Errorf("unknown plugin %q", name)
	}
	return b(), nil
}

// Describe returns the named plugin's identity.
func (c *Catalog) Describe(name string) (plugin.Info, error) {
	inst, err := c.New(name)
	if err != nil {
		return plugin.Info{}, err
	}
	return inst.Info(), nil
}

// Names lists the registered plugin names, sorted.
func (c *Catalog) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.builders))
	for name := range c.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
