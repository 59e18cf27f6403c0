package provider

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

var (
	errNilProvider = errors.New("provider: nil provider")
	errNoFactory   = errors.New("provider: route has no destination factory")
	errNoKind      = errors.New("provider: route has no kind")
)

// MakeFunc creates a destination from a configuration value.
type MakeFunc func(ctx context.Context, config any) (any, error)

// Route is a value-based provider assembled from functions rather than
// declared as a type. Routes are keyed by Name.
type Route struct {
	Name    string
	Of      Kind
	Classes []reflect.Type
	Config  func() any
	Make    MakeFunc
}

// NewViewRoute creates a view route producing destinations of the given types.
func NewViewRoute(name string, fn MakeFunc, classes ...reflect.Type) *Route {
	return &Route{Name: name, Of: KindView, Make: fn, Classes: classes}
}

// NewServiceRoute creates a service route producing destinations of the
// given types.
func NewServiceRoute(name string, fn MakeFunc, classes ...reflect.Type) *Route {
	return &Route{Name: name, Of: KindService, Make: fn, Classes: classes}
}

// WithConfig sets the default configuration factory and returns the route.
func (r *Route) WithConfig(fn func() any) *Route {
	r.Config = fn
	return r
}

// Identity implements key.Identifier.
func (r *Route) Identity() string {
	if r == nil || r.Name == "" {
		return ""
	}
	return r.String()
}

func (r *Route) String() string {
	if r == nil {
		return "route(<nil>)"
	}
	return fmt.Sprintf("route(%s)", r.Name)
}

func (r *Route) Kind() Kind {
	if r == nil {
		return KindUnknown
	}
	return r.Of
}

func (r *Route) DefaultConfiguration() any {
	if r.Config == nil {
		return nil
	}
	return r.Config()
}

func (r *Route) Destinations() []reflect.Type { return r.Classes }

func (r *Route) MakeDestination(ctx context.Context, config any) (any, error) {
	if r.Make == nil {
		return nil, fmt.Errorf("%s: %w", r, errNoFactory)
	}
	return r.Make(ctx, config)
}

// Materialize reports whether the route can produce destinations.
func (r *Route) Materialize() (Provider, error) {
	if r == nil {
		return nil, errNilProvider
	}
	if r.Of == KindUnknown {
		return nil, fmt.Errorf("%s: %w", r, errNoKind)
	}
	if r.Make == nil {
		return nil, fmt.Errorf("%s: %w", r, errNoFactory)
	}
	return r, nil
}
