// Package clock contributes time services. The Clock capability is bound by
// the clock manifest; Zone is owned by the native runtime.
package clock

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/vk/caproute/internal/catalog"
	"github.com/vk/caproute/internal/interop"
	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/router"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Zone names the local time zone. It is exported to the native runtime.
type Zone interface {
	Zone() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) String() string { return "system clock" }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func (c fixedClock) String() string { return "fixed clock at " + c.t.Format(time.RFC3339) }

// SystemRouter provides the wall clock.
type SystemRouter struct{}

func (*SystemRouter) Kind() provider.Kind { return provider.KindService }

func (*SystemRouter) DefaultConfiguration() any { return nil }

func (*SystemRouter) Destinations() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[systemClock]()}
}

func (*SystemRouter) MakeDestination(context.Context, any) (any, error) { return systemClock{}, nil }

// Epoch is the instant the fixed clock reports.
var Epoch = time.Date(2017, time.October, 16, 0, 0, 0, 0, time.UTC)

// FixedRoute provides a clock frozen at Epoch, for reproducible runs.
var FixedRoute = provider.NewServiceRoute("clock.fixed",
	func(context.Context, any) (any, error) { return fixedClock{t: Epoch}, nil },
	reflect.TypeFor[fixedClock](),
)

type localZone struct{ name string }

func (z localZone) Zone() string { return z.name }

func (z localZone) String() string { return "zone " + z.name }

// ZoneRoute provides the local time zone.
var ZoneRoute = provider.NewServiceRoute("clock.zone",
	func(context.Context, any) (any, error) {
		name, _ := time.Now().Zone()
		return localZone{name: name}, nil
	},
	reflect.TypeFor[localZone](),
)

// Register declares the clock providers for manifest binding and registers
// the native Zone capability.
func (m *Module) Register(c *catalog.Catalog) {
	catalog.Declare[Clock](c)
	c.DeclareProvider("clock.system", &SystemRouter{})
	c.DeclareProvider("clock.fixed", FixedRoute)

	if native := c.Native(); native != nil {
		interop.Export[Zone](native)
	}
	if err := router.RegisterServiceRoute[Zone](c.Registry(), ZoneRoute); err != nil {
		panic(fmt.Errorf("clock: %w", err))
	}
}
