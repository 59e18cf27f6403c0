// Package greeter contributes the greeting view capabilities.
package greeter

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/caproute/internal/catalog"
	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/router"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Greeter is the destination capability of the greeting view.
type Greeter interface {
	Greet(name string) string
}

// GreetingConfig is the module capability used to configure a greeting view
// before it is created.
type GreetingConfig interface {
	Salutation() string
	SetSalutation(s string)
	SetLoud(loud bool)
}

// Farewell is bound to a route by the greeter manifest rather than in code.
type Farewell interface {
	Farewell(name string) string
}

// Config is the default configuration of HelloRouter.
type Config struct {
	salutation string
	loud       bool
}

func (c *Config) Salutation() string     { return c.salutation }
func (c *Config) SetSalutation(s string) { c.salutation = s }
func (c *Config) SetLoud(loud bool)      { c.loud = loud }

// HelloView greets in the configured salutation.
type HelloView struct{ salutation string }

func (v *HelloView) Greet(name string) string { return fmt.Sprintf("%s, %s!", v.salutation, name) }

func (v *HelloView) String() string { return v.Greet("world") }

// ShoutView greets loudly.
type ShoutView struct{ salutation string }

func (v *ShoutView) Greet(name string) string {
	return strings.ToUpper(fmt.Sprintf("%s, %s!", v.salutation, name))
}

func (v *ShoutView) String() string { return v.Greet("world") }

// HelloRouter provides Greeter views. It creates a ShoutView when the
// configuration asks for a loud greeting and a HelloView otherwise.
type HelloRouter struct{}

func (*HelloRouter) Kind() provider.Kind { return provider.KindView }

func (*HelloRouter) DefaultConfiguration() any { return &Config{salutation: "Hello"} }

func (*HelloRouter) Destinations() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[*HelloView](), reflect.TypeFor[*ShoutView]()}
}

func (*HelloRouter) MakeDestination(_ context.Context, config any) (any, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("greeter: unexpected configuration %T", config)
	}
	if cfg.loud {
		return &ShoutView{salutation: cfg.salutation}, nil
	}
	return &HelloView{salutation: cfg.salutation}, nil
}

type farewellView struct{}

func (farewellView) Farewell(name string) string { return "Goodbye, " + name + "." }

func (v farewellView) String() string { return v.Farewell("world") }

// FarewellRoute is the value-based provider of Farewell.
var FarewellRoute = provider.NewViewRoute("greeter.farewell",
	func(context.Context, any) (any, error) { return farewellView{}, nil },
	reflect.TypeFor[farewellView](),
)

// Register registers the greeting views and declares the names the greeter
// manifest binds.
func (m *Module) Register(c *catalog.Catalog) {
	reg := c.Registry()
	router.MustRegisterView[Greeter](reg, &HelloRouter{})
	router.MustRegisterViewModule[GreetingConfig](reg, &HelloRouter{})

	catalog.Declare[Farewell](c)
	c.DeclareProvider("greeter.farewell", FarewellRoute)
}
