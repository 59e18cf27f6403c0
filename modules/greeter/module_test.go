package greeter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/caproute/internal/catalog"
	"github.com/vk/caproute/internal/registry"
	"github.com/vk/caproute/internal/router"
	"github.com/vk/caproute/modules/greeter"
)

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	reg := registry.New(registry.WithConformanceChecks(true), registry.WithAssertions(true))
	c := catalog.New(reg, nil)
	(&greeter.Module{}).Register(c)
	require.NoError(t, reg.Finish())
	return c
}

func TestModule_Greeter(t *testing.T) {
	t.Parallel()

	c := newCatalog(t)

	h, err := router.ToView[greeter.Greeter](c.Registry())
	require.NoError(t, err)
	g, err := h.Make(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ann!", g.Greet("Ann"))
}

func TestModule_ConfiguredGreeting(t *testing.T) {
	t.Parallel()

	c := newCatalog(t)

	h, err := router.ToViewModule[greeter.GreetingConfig](c.Registry())
	require.NoError(t, err)

	cfg, ok := h.Configuration()
	require.True(t, ok)
	assert.Equal(t, "Hello", cfg.Salutation())

	dest, err := h.Make(context.Background(), func(cfg greeter.GreetingConfig) {
		cfg.SetSalutation("Hey")
		cfg.SetLoud(true)
	})
	require.NoError(t, err)
	require.IsType(t, &greeter.ShoutView{}, dest)
	assert.Equal(t, "HEY, ANN!", dest.(greeter.Greeter).Greet("Ann"))
}

func TestModule_FarewellIsDeclaredNotRegistered(t *testing.T) {
	t.Parallel()

	c := newCatalog(t)

	_, ok := c.Capability("greeter.Farewell")
	assert.True(t, ok)
	p, ok := c.Provider("greeter.farewell")
	require.True(t, ok)
	assert.Same(t, greeter.FarewellRoute, p)

	assert.Len(t, c.Registry().Entries(), 2, "Farewell is bound by the manifest")
}

func TestHelloRouter_RejectsForeignConfiguration(t *testing.T) {
	t.Parallel()

	_, err := (&greeter.HelloRouter{}).MakeDestination(context.Background(), "loud")
	require.Error(t, err)
}
