package interop

import (
	"reflect"
	"sync"

	"github.com/vk/caproute/internal/provider"
)

// Catalog is an in-memory Runtime. Capabilities become native when exported;
// conformance follows Go's type relations plus explicitly declared pairs.
type Catalog struct {
	mu        sync.RWMutex
	protocols map[string]reflect.Type
	declared  map[reflect.Type]map[reflect.Type]struct{}
	providers [provider.RoleCount]map[reflect.Type]provider.Provider
}

var _ Runtime = (*Catalog)(nil)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	c := &Catalog{
		protocols: make(map[string]reflect.Type),
		declared:  make(map[reflect.Type]map[reflect.Type]struct{}),
	}
	for i := range c.providers {
		c.providers[i] = make(map[reflect.Type]provider.Provider)
	}
	return c
}

// Export marks capabilities as native and makes them resolvable by name.
func (c *Catalog) Export(capabilities ...reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range capabilities {
		if t == nil {
			continue
		}
		c.protocols[t.String()] = t
	}
}

// Export marks T as a native capability of c.
func Export[T any](c *Catalog) { c.Export(reflect.TypeFor[T]()) }

// Declare records that t satisfies capability even if Go's type relations
// say otherwise.
func (c *Catalog) Declare(t, capability reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.declared[t]
	if !ok {
		set = make(map[reflect.Type]struct{})
		c.declared[t] = set
	}
	set[capability] = struct{}{}
}

func (c *Catalog) IsNative(capability reflect.Type) bool {
	if capability == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.protocols[capability.String()]
	return ok && t == capability
}

func (c *Catalog) ProtocolNamed(name string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.protocols[name]
	return t, ok
}

// Register keeps the first provider registered for a capability.
func (c *Catalog) Register(role provider.Role, capability reflect.Type, p provider.Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	table := c.providers[role.Index()]
	if _, exists := table[capability]; exists {
		return
	}
	table[capability] = p
}

func (c *Catalog) Resolve(role provider.Role, capability reflect.Type) (provider.Provider, bool) {
	c.mu.RLock()
	p, ok := c.providers[role.Index()][capability]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	p, err := provider.Materialize(p)
	if err != nil {
		return nil, false
	}
	return p, true
}

func (c *Catalog) Conforms(t, capability reflect.Type) bool {
	if t == nil || capability == nil {
		return false
	}
	c.mu.RLock()
	_, declared := c.declared[t][capability]
	c.mu.RUnlock()
	if declared {
		return true
	}
	if capability.Kind() == reflect.Interface {
		return t.Implements(capability)
	}
	return t.AssignableTo(capability)
}
