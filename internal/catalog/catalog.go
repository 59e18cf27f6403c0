// Package catalog holds the names that route manifests refer to: the
// capability types and providers each Go module makes available for
// binding. It also carries the registry and native runtime a module
// registers into, so a module needs a single entry point.
package catalog

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/vk/caproute/internal/interop"
	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/registry"
)

// Module is implemented by every package that contributes capabilities.
type Module interface {
	Register(c *Catalog)
}

// Catalog maps manifest names to capability types and providers.
type Catalog struct {
	reg          *registry.Registry
	native       *interop.Catalog
	capabilities map[string]reflect.Type
	providers    map[string]provider.Provider
}

// New creates an empty catalog bound to a registry and an optional native
// runtime.
func New(reg *registry.Registry, native *interop.Catalog) *Catalog {
	return &Catalog{
		reg:          reg,
		native:       native,
		capabilities: make(map[string]reflect.Type),
		providers:    make(map[string]provider.Provider),
	}
}

// Registry returns the registry modules register into.
func (c *Catalog) Registry() *registry.Registry { return c.reg }

// Native returns the native-interop runtime, or nil.
func (c *Catalog) Native() *interop.Catalog { return c.native }

// DeclareCapability makes t bindable under its canonical name.
func (c *Catalog) DeclareCapability(t reflect.Type) {
	if t == nil {
		panic("catalog: nil capability type")
	}
	name := t.String()
	if _, exists := c.capabilities[name]; exists {
		panic(fmt.Sprintf("capability with name '%s' already declared", name))
	}
	slog.Debug("Declaring capability.", "name", name)
	c.capabilities[name] = t
}

// Declare makes the capability T bindable.
func Declare[T any](c *Catalog) { c.DeclareCapability(reflect.TypeFor[T]()) }

// DeclareProvider makes p bindable under name.
func (c *Catalog) DeclareProvider(name string, p provider.Provider) {
	if _, exists := c.providers[name]; exists {
		panic(fmt.Sprintf("provider with name '%s' already declared", name))
	}
	slog.Debug("Declaring provider.", "name", name, "provider", provider.Describe(p))
	c.providers[name] = p
}

// Capability looks up a declared capability type.
func (c *Catalog) Capability(name string) (reflect.Type, bool) {
	t, ok := c.capabilities[name]
	return t, ok
}

// Provider looks up a declared provider.
func (c *Catalog) Provider(name string) (provider.Provider, bool) {
	p, ok := c.providers[name]
	return p, ok
}

// CapabilityNames returns all declared capability names, sorted.
func (c *Catalog) CapabilityNames() []string { return sortedNames(c.capabilities) }

// ProviderNames returns all declared provider names, sorted.
func (c *Catalog) ProviderNames() []string { return sortedNames(c.providers) }

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
