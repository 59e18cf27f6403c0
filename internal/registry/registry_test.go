package registry_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/caproute/internal/interop"
	"github.com/vk/caproute/internal/key"
	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/registry"
	"github.com/vk/caproute/internal/testutil"
)

func TestRegistry_RegisterThenResolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		role       provider.Role
		capability reflect.Type
		provider   provider.Provider
	}{
		{role: provider.ViewDestination, capability: typeOf[Greeter](), provider: &HelloRouter{}},
		{role: provider.ViewModule, capability: typeOf[GreetingConfig](), provider: &HelloRouter{}},
		{role: provider.ServiceDestination, capability: typeOf[Greeter](), provider: &ServiceRouter{}},
		{role: provider.ServiceModule, capability: typeOf[GreetingConfig](), provider: &ServiceRouter{}},
	}

	for _, tc := range testCases {
		t.Run(tc.role.Name, func(t *testing.T) {
			reg, rec, _ := newTestRegistry()

			require.NoError(t, reg.Register(tc.role, tc.capability, tc.provider))
			require.NoError(t, reg.Finish())

			got, err := reg.Resolve(tc.role, tc.capability)
			require.NoError(t, err)
			assert.Same(t, tc.provider, got)
			assert.Zero(t, rec.count())
		})
	}
}

func TestRegistry_DuplicateKeepsFirst(t *testing.T) {
	t.Parallel()

	reg, rec, _ := newTestRegistry()
	hello := &HelloRouter{}

	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), hello))
	err := reg.Register(provider.ViewDestination, typeOf[Greeter](), &OtherRouter{})

	require.ErrorIs(t, err, registry.ErrDuplicate)
	var perr *registry.ProgrammingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "*registry_test.HelloRouter", perr.Previous)
	assert.Equal(t, "*registry_test.OtherRouter", perr.Provider)
	assert.Contains(t, err.Error(), "*registry_test.HelloRouter")
	assert.Contains(t, err.Error(), "*registry_test.OtherRouter")
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "toView", rec.actions[0])

	got, ok := reg.Lookup(provider.ViewDestination, key.Of[Greeter]())
	require.True(t, ok)
	assert.Same(t, hello, got)

	// the failed call must not leak into the check table either
	assert.Nil(t, reg.CheckedCapabilities(provider.KindView, &OtherRouter{}))
}

func TestRegistry_ModuleConfigMustConform(t *testing.T) {
	t.Parallel()

	reg, rec, _ := newTestRegistry()

	err := reg.Register(provider.ViewModule, typeOf[GreetingConfig](), &BareRouter{})
	require.ErrorIs(t, err, registry.ErrConfigMismatch)
	assert.Equal(t, 1, rec.count())

	_, ok := reg.Lookup(provider.ViewModule, key.Of[GreetingConfig]())
	assert.False(t, ok, "a rejected registration leaves no entry")

	// the slot is still free for a conforming provider
	require.NoError(t, reg.Register(provider.ViewModule, typeOf[GreetingConfig](), &HelloRouter{}))
}

func TestRegistry_ResolveName(t *testing.T) {
	t.Parallel()

	reg, _, _ := newTestRegistry()
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), &HelloRouter{}))
	require.NoError(t, reg.Finish())

	static, err := reg.Resolve(provider.ViewDestination, typeOf[Greeter]())
	require.NoError(t, err)
	dynamic, err := reg.ResolveName(provider.ViewDestination, "registry_test.Greeter")
	require.NoError(t, err)

	assert.Same(t, static, dynamic)
}

func TestRegistry_UnregisteredIsReportedOnce(t *testing.T) {
	t.Parallel()

	reg, rec, _ := newTestRegistry()
	require.NoError(t, reg.Finish())

	p, err := reg.Resolve(provider.ViewDestination, typeOf[Unregistered]())
	assert.Nil(t, p)
	require.ErrorIs(t, err, registry.ErrNotRegistered)

	var miss *registry.ResolutionMiss
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, "registry_test.Unregistered", miss.Capability)
	assert.False(t, miss.Dynamic)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, err, rec.last())
}

func TestRegistry_ResolveNameUnknownIsReported(t *testing.T) {
	t.Parallel()

	reg, rec, _ := newTestRegistry()

	for _, name := range []string{"nothing.Here", ""} {
		_, err := reg.ResolveName(provider.ServiceDestination, name)
		var miss *registry.ResolutionMiss
		require.ErrorAs(t, err, &miss)
		assert.True(t, miss.Dynamic)
	}
	assert.Equal(t, 2, rec.count())
}

func TestRegistry_ValidationPass(t *testing.T) {
	t.Parallel()

	t.Run("every class conforms", func(t *testing.T) {
		reg, rec, _ := newTestRegistry()
		require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), &HelloRouter{}))
		require.NoError(t, reg.Register(provider.ViewModule, typeOf[GreetingConfig](), &HelloRouter{}))

		require.NoError(t, reg.Finish())
		assert.Zero(t, rec.count())
	})

	t.Run("one class does not conform", func(t *testing.T) {
		reg, rec, _ := newTestRegistry()
		require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), &BrokenRouter{}))

		err := reg.Finish()
		require.ErrorIs(t, err, registry.ErrNonConforming)
		var perr *registry.ProgrammingError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "registry_test.B", perr.Class)
		assert.Equal(t, "*registry_test.BrokenRouter", perr.Provider)
		assert.Equal(t, "registry_test.Greeter", perr.Capability)
		assert.Equal(t, 1, rec.count())

		// Finish runs once and keeps its result
		assert.Equal(t, err, reg.Finish())
		assert.Equal(t, 1, rec.count())
	})

	t.Run("checks disabled records nothing", func(t *testing.T) {
		reg, rec, _ := newTestRegistry(registry.WithConformanceChecks(false))
		require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), &BrokenRouter{}))

		require.NoError(t, reg.Finish())
		assert.Nil(t, reg.CheckedCapabilities(provider.KindView, &BrokenRouter{}))
		assert.Zero(t, rec.count())
	})
}

func TestRegistry_FinishAssertedKeepsResult(t *testing.T) {
	t.Parallel()

	reg, rec, _ := newTestRegistry(registry.WithAssertions(true))
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), &BrokenRouter{}))

	recovered := testutil.RecoverPanic(func() { _ = reg.Finish() })
	require.NotNil(t, recovered, "a failed validation panics with assertions on")
	assert.ErrorIs(t, recovered.(error), registry.ErrNonConforming)

	err := reg.Finish()
	require.ErrorIs(t, err, registry.ErrNonConforming, "a recovered panic must not turn into a pass")
	assert.Equal(t, recovered, err)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "toView", rec.actions[0])
}

func TestRegistry_SameShortNameCollides(t *testing.T) {
	t.Parallel()

	reg, _, _ := newTestRegistry()
	first := typeOf[Greeter]()
	// Shares the package and type name with the package-level Greeter.
	type Greeter interface{ Greet() string }
	second := typeOf[Greeter]()
	require.NotEqual(t, first, second)

	require.NoError(t, reg.Register(provider.ViewDestination, first, &HelloRouter{}))
	err := reg.Register(provider.ViewDestination, second, &OtherRouter{})
	require.ErrorIs(t, err, registry.ErrDuplicate)
}

func TestRegistry_LogsProviderSource(t *testing.T) {
	t.Parallel()

	reg, _, logs := newTestRegistry()
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), &HelloRouter{}))
	route := provider.NewViewRoute("also", func(context.Context, any) (any, error) { return AlsoA{}, nil })
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[AlsoGreeter](), route))

	assert.Contains(t, logs.String(), "provider_source=type")
	assert.Contains(t, logs.String(), "provider_source=route")
}

func TestRegistry_CheckSetsAccumulate(t *testing.T) {
	t.Parallel()

	reg, _, _ := newTestRegistry()
	hello := &HelloRouter{}
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), hello))
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[interface{ Greet() string }](), hello))
	require.NoError(t, reg.Register(provider.ViewModule, typeOf[GreetingConfig](), hello))

	got := reg.CheckedCapabilities(provider.KindView, hello)
	assert.Equal(t, []key.Key{key.Of[interface{ Greet() string }](), key.Of[Greeter]()}, got,
		"module roles are not recorded and destination capabilities accumulate")
}

func TestRegistry_RegistrationErrors(t *testing.T) {
	t.Parallel()

	t.Run("after finish", func(t *testing.T) {
		reg, rec, _ := newTestRegistry()
		require.NoError(t, reg.Finish())
		assert.True(t, reg.Sealed())

		err := reg.Register(provider.ViewDestination, typeOf[Greeter](), &HelloRouter{})
		require.ErrorIs(t, err, registry.ErrSealed)
		assert.Equal(t, 1, rec.count())
		assert.Empty(t, reg.Entries())
	})

	t.Run("wrong provider kind", func(t *testing.T) {
		reg, _, _ := newTestRegistry()
		err := reg.Register(provider.ServiceDestination, typeOf[Greeter](), &HelloRouter{})
		require.ErrorIs(t, err, registry.ErrProviderKind)
		assert.Contains(t, err.Error(), "must be a service provider")
	})

	t.Run("nil provider", func(t *testing.T) {
		reg, _, _ := newTestRegistry()
		err := reg.Register(provider.ViewDestination, typeOf[Greeter](), nil)
		require.ErrorIs(t, err, registry.ErrProviderKind)
	})

	t.Run("nil capability", func(t *testing.T) {
		reg, _, _ := newTestRegistry()
		err := reg.Register(provider.ViewDestination, nil, &HelloRouter{})
		require.ErrorIs(t, err, registry.ErrNoIdentity)
	})

	t.Run("route without identity", func(t *testing.T) {
		reg, _, _ := newTestRegistry()
		route := provider.NewViewRoute("", func(context.Context, any) (any, error) { return A{}, nil })
		err := reg.Register(provider.ViewDestination, typeOf[Greeter](), route)
		require.ErrorIs(t, err, registry.ErrNoIdentity)
		assert.Empty(t, reg.Entries())
	})
}

func TestRegistry_Assertions(t *testing.T) {
	t.Parallel()

	reg, rec, _ := newTestRegistry(registry.WithAssertions(true))
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), &HelloRouter{}))

	assert.PanicsWithError(t,
		(&registry.ProgrammingError{
			Role:       provider.ViewDestination,
			Capability: "registry_test.Greeter",
			Provider:   "*registry_test.OtherRouter",
			Previous:   "*registry_test.HelloRouter",
			Err:        registry.ErrDuplicate,
		}).Error(),
		func() { _ = reg.Register(provider.ViewDestination, typeOf[Greeter](), &OtherRouter{}) })

	assert.Panics(t, func() { _, _ = reg.Resolve(provider.ViewDestination, typeOf[Unregistered]()) })
	assert.Equal(t, 2, rec.count(), "the handler sees every error before the panic")
}

func TestRegistry_RouteThatCannotMaterializeIsAMiss(t *testing.T) {
	t.Parallel()

	reg, rec, logs := newTestRegistry()
	broken := &provider.Route{Name: "broken", Of: provider.KindView}
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), broken))

	_, err := reg.Resolve(provider.ViewDestination, typeOf[Greeter]())
	require.ErrorIs(t, err, registry.ErrNotRegistered)
	assert.Equal(t, 1, rec.count())
	assert.Contains(t, logs.String(), "could not be materialized")
	assert.Contains(t, logs.String(), "route(broken)")
}

func TestRegistry_NativeInterop(t *testing.T) {
	t.Parallel()

	native := interop.NewCatalog()
	interop.Export[Native](native)
	reg, rec, _ := newTestRegistry(registry.WithInterop(native))

	route := provider.NewServiceRoute("native", func(context.Context, any) (any, error) { return A{}, nil })
	require.NoError(t, reg.Register(provider.ServiceDestination, typeOf[Native](), route))
	assert.Empty(t, reg.Entries(), "native registrations bypass the tables")
	require.NoError(t, reg.Finish())

	got, err := reg.Resolve(provider.ServiceDestination, typeOf[Native]())
	require.NoError(t, err)
	assert.Same(t, route, got)

	got, err = reg.ResolveName(provider.ServiceDestination, "registry_test.Native")
	require.NoError(t, err)
	assert.Same(t, route, got)

	// nothing registered for the view role: a miss, but not a reported one
	_, err = reg.Resolve(provider.ViewDestination, typeOf[Native]())
	var miss *registry.ResolutionMiss
	require.ErrorAs(t, err, &miss)
	assert.True(t, miss.Native)
	_, err = reg.ResolveName(provider.ViewDestination, "registry_test.Native")
	require.ErrorAs(t, err, &miss)
	assert.True(t, miss.Native)
	assert.Zero(t, rec.count())
}

func TestRegistry_ExplicitRegistrationBeatsNativeName(t *testing.T) {
	t.Parallel()

	native := interop.NewCatalog()
	interop.Export[Native](native)
	nativeRoute := provider.NewViewRoute("native", func(context.Context, any) (any, error) { return A{}, nil })
	native.Register(provider.ViewDestination, typeOf[Native](), nativeRoute)

	reg, _, _ := newTestRegistry(registry.WithInterop(native))
	hello := &HelloRouter{}
	// A local capability whose canonical name collides with the native one.
	type Native interface{ Greet() string }
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Native](), hello))

	got, err := reg.ResolveName(provider.ViewDestination, typeOf[Native]().String())
	require.NoError(t, err)
	assert.Same(t, hello, got)
}

func TestRegistry_ValidateDestination(t *testing.T) {
	t.Parallel()

	reg, rec, _ := newTestRegistry()
	broken := &BrokenRouter{}
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), broken))

	require.NoError(t, reg.ValidateDestination(broken, A{}))
	err := reg.ValidateDestination(broken, B{})
	require.ErrorIs(t, err, registry.ErrNonConforming)
	assert.Contains(t, err.Error(), "registry_test.B")

	err = reg.ValidateDestination(broken, nil)
	require.ErrorIs(t, err, registry.ErrNonConforming)
	assert.Contains(t, err.Error(), "<nil>")

	require.NoError(t, reg.ValidateDestination(&OtherRouter{}, B{}), "providers without recorded capabilities pass")
	assert.Equal(t, 2, rec.count())
}

func TestRegistry_EntriesAreOrdered(t *testing.T) {
	t.Parallel()

	reg, _, _ := newTestRegistry()
	require.NoError(t, reg.Register(provider.ServiceDestination, typeOf[Greeter](), &ServiceRouter{}))
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), &HelloRouter{}))
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[AlsoGreeter](), &OtherRouter{}))

	var got []string
	for _, e := range reg.Entries() {
		got = append(got, e.Role.Name+" "+e.Capability.String())
	}
	assert.Equal(t, []string{
		"view registry_test.AlsoGreeter",
		"view registry_test.Greeter",
		"service registry_test.Greeter",
	}, got)
}

type AlsoGreeter interface{ Greet() string }

func TestRegistry_ConcurrentResolveAfterFinish(t *testing.T) {
	t.Parallel()

	reg, rec, _ := newTestRegistry()
	hello := &HelloRouter{}
	require.NoError(t, reg.Register(provider.ViewDestination, typeOf[Greeter](), hello))
	require.NoError(t, reg.Finish())

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := reg.Resolve(provider.ViewDestination, typeOf[Greeter]())
			if err == nil && p != provider.Provider(hello) {
				err = errors.New("resolved the wrong provider")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Zero(t, rec.count())
}

func TestRegistry_DefaultErrorHandlerLogs(t *testing.T) {
	t.Parallel()

	reg, _, logs := newTestRegistry(registry.WithErrorHandler(nil))
	_, err := reg.Resolve(provider.ViewDestination, typeOf[Unregistered]())
	require.Error(t, err)
	assert.Contains(t, logs.String(), "Capability registry error.")
	assert.Contains(t, logs.String(), "action=toView")
}
