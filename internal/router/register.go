package router

import (
	"reflect"

	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/registry"
)

// RegisterView records p as the view provider of destination capability D.
func RegisterView[D any](reg *registry.Registry, p provider.Provider) error {
	return reg.Register(provider.ViewDestination, reflect.TypeFor[D](), p)
}

// RegisterViewRoute records a view route for destination capability D.
func RegisterViewRoute[D any](reg *registry.Registry, route *provider.Route) error {
	return reg.Register(provider.ViewDestination, reflect.TypeFor[D](), route)
}

// RegisterViewModule records p as the view provider of module capability M.
// p's default configuration must satisfy M.
func RegisterViewModule[M any](reg *registry.Registry, p provider.Provider) error {
	return reg.Register(provider.ViewModule, reflect.TypeFor[M](), p)
}

// RegisterViewModuleRoute records a view route for module capability M.
func RegisterViewModuleRoute[M any](reg *registry.Registry, route *provider.Route) error {
	return reg.Register(provider.ViewModule, reflect.TypeFor[M](), route)
}

// RegisterService records p as the service provider of destination
// capability D.
func RegisterService[D any](reg *registry.Registry, p provider.Provider) error {
	return reg.Register(provider.ServiceDestination, reflect.TypeFor[D](), p)
}

// RegisterServiceRoute records a service route for destination capability D.
func RegisterServiceRoute[D any](reg *registry.Registry, route *provider.Route) error {
	return reg.Register(provider.ServiceDestination, reflect.TypeFor[D](), route)
}

// RegisterServiceModule records p as the service provider of module
// capability M.
func RegisterServiceModule[M any](reg *registry.Registry, p provider.Provider) error {
	return reg.Register(provider.ServiceModule, reflect.TypeFor[M](), p)
}

// RegisterServiceModuleRoute records a service route for module capability M.
func RegisterServiceModuleRoute[M any](reg *registry.Registry, route *provider.Route) error {
	return reg.Register(provider.ServiceModule, reflect.TypeFor[M](), route)
}

// MustRegisterView panics if RegisterView fails.
func MustRegisterView[D any](reg *registry.Registry, p provider.Provider) {
	reg.MustRegister(provider.ViewDestination, reflect.TypeFor[D](), p)
}

// MustRegisterViewModule panics if RegisterViewModule fails.
func MustRegisterViewModule[M any](reg *registry.Registry, p provider.Provider) {
	reg.MustRegister(provider.ViewModule, reflect.TypeFor[M](), p)
}

// MustRegisterService panics if RegisterService fails.
func MustRegisterService[D any](reg *registry.Registry, p provider.Provider) {
	reg.MustRegister(provider.ServiceDestination, reflect.TypeFor[D](), p)
}

// MustRegisterServiceModule panics if RegisterServiceModule fails.
func MustRegisterServiceModule[M any](reg *registry.Registry, p provider.Provider) {
	reg.MustRegister(provider.ServiceModule, reflect.TypeFor[M](), p)
}
