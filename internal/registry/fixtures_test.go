package registry_test

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/registry"
)

type Greeter interface{ Greet() string }

type GreetingConfig interface{ Salutation() string }

type Unregistered interface{ Missing() }

type Native interface{ Native() }

// A and AlsoA satisfy Greeter; B does not.
type A struct{}

func (A) Greet() string { return "a" }

type AlsoA struct{}

func (AlsoA) Greet() string { return "also a" }

type B struct{}

type greetingConfig struct{ salutation string }

func (c *greetingConfig) Salutation() string { return c.salutation }

// viewProvider holds the behaviour shared by the test view providers.
type viewProvider struct{}

func (viewProvider) Kind() provider.Kind { return provider.KindView }

func (viewProvider) DefaultConfiguration() any { return &greetingConfig{salutation: "Hello"} }

func (viewProvider) MakeDestination(context.Context, any) (any, error) { return A{}, nil }

type HelloRouter struct{ viewProvider }

func (*HelloRouter) Destinations() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[AlsoA]()}
}

type OtherRouter struct{ viewProvider }

func (*OtherRouter) Destinations() []reflect.Type { return []reflect.Type{reflect.TypeFor[A]()} }

// BrokenRouter claims it may produce B, which is not a Greeter.
type BrokenRouter struct{ viewProvider }

func (*BrokenRouter) Destinations() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()}
}

func (*BrokenRouter) MakeDestination(context.Context, any) (any, error) { return B{}, nil }

// BareRouter's default configuration implements nothing.
type BareRouter struct{ viewProvider }

func (*BareRouter) DefaultConfiguration() any { return struct{}{} }

func (*BareRouter) Destinations() []reflect.Type { return nil }

type ServiceRouter struct{}

func (*ServiceRouter) Kind() provider.Kind { return provider.KindService }

func (*ServiceRouter) DefaultConfiguration() any { return &greetingConfig{} }

func (*ServiceRouter) Destinations() []reflect.Type { return []reflect.Type{reflect.TypeFor[A]()} }

func (*ServiceRouter) MakeDestination(context.Context, any) (any, error) { return A{}, nil }

// recorder collects everything handed to the error handler.
type recorder struct {
	mu      sync.Mutex
	actions []string
	errs    []error
}

func (r *recorder) handle(action string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	r.errs = append(r.errs, err)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func (r *recorder) last() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

// newTestRegistry returns a registry with checks on, a recorder as error
// handler and a debug logger writing into the returned buffer.
func newTestRegistry(opts ...registry.Option) (*registry.Registry, *recorder, *bytes.Buffer) {
	rec := &recorder{}
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	base := []registry.Option{
		registry.WithLogger(logger),
		registry.WithConformanceChecks(true),
		registry.WithErrorHandler(rec.handle),
	}
	return registry.New(append(base, opts...)...), rec, logs
}

func typeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }
