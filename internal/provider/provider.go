package provider

import (
	"context"
	"reflect"
)

// Kind is the provider abstraction a provider implements.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindView
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindView:
		return "view"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Provider creates destinations for the capabilities it is registered
// against. A provider type (for example *greeter.HelloRouter) is identified by
// its Go type; a *Route is identified by its name.
type Provider interface {
	// Kind reports which provider abstraction this provider implements.
	Kind() Kind

	// DefaultConfiguration returns a fresh default configuration value. Module
	// capabilities registered against the provider must be satisfied by it.
	DefaultConfiguration() any

	// Destinations enumerates every concrete type the provider may
	// instantiate.
	Destinations() []reflect.Type

	// MakeDestination creates a destination from a configuration value.
	MakeDestination(ctx context.Context, config any) (any, error)
}

// Materializer is implemented by providers that may fail to become usable
// after they have been stored, such as a Route without a factory.
type Materializer interface {
	Materialize() (Provider, error)
}

// Materialize turns a stored provider into a usable one.
func Materialize(p Provider) (Provider, error) {
	if p == nil {
		return nil, errNilProvider
	}
	if m, ok := p.(Materializer); ok {
		return m.Materialize()
	}
	return p, nil
}

// FirstMismatch returns the first type produced by p that does not satisfy
// pred, or nil if every type does.
func FirstMismatch(p Provider, pred func(reflect.Type) bool) reflect.Type {
	for _, t := range p.Destinations() {
		if t == nil {
			continue
		}
		if !pred(t) {
			return t
		}
	}
	return nil
}

// Describe renders a provider for error messages.
func Describe(p Provider) string {
	if p == nil {
		return "<nil>"
	}
	if r, ok := p.(*Route); ok {
		return r.String()
	}
	return reflect.TypeOf(p).String()
}
