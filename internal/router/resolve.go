package router

import (
	"reflect"

	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/registry"
)

// ToView resolves the view provider of destination capability D.
func ToView[D any](reg *registry.Registry) (*Handle[D, any], error) {
	return resolve[D, any](reg, provider.ViewDestination, reflect.TypeFor[D]())
}

// ToViewModule resolves the view provider of module capability M.
func ToViewModule[M any](reg *registry.Registry) (*Handle[any, M], error) {
	return resolve[any, M](reg, provider.ViewModule, reflect.TypeFor[M]())
}

// ToService resolves the service provider of destination capability D.
func ToService[D any](reg *registry.Registry) (*Handle[D, any], error) {
	return resolve[D, any](reg, provider.ServiceDestination, reflect.TypeFor[D]())
}

// ToServiceModule resolves the service provider of module capability M.
func ToServiceModule[M any](reg *registry.Registry) (*Handle[any, M], error) {
	return resolve[any, M](reg, provider.ServiceModule, reflect.TypeFor[M]())
}

// SwitchableView carries one view capability out of a family.
type SwitchableView struct{ capability reflect.Type }

// SwitchableViewModule carries one view module capability out of a family.
type SwitchableViewModule struct{ capability reflect.Type }

// SwitchableService carries one service capability out of a family.
type SwitchableService struct{ capability reflect.Type }

// SwitchableServiceModule carries one service module capability out of a
// family.
type SwitchableServiceModule struct{ capability reflect.Type }

func SwitchView[D any]() SwitchableView { return SwitchableView{reflect.TypeFor[D]()} }

func SwitchViewModule[M any]() SwitchableViewModule {
	return SwitchableViewModule{reflect.TypeFor[M]()}
}

func SwitchService[D any]() SwitchableService { return SwitchableService{reflect.TypeFor[D]()} }

func SwitchServiceModule[M any]() SwitchableServiceModule {
	return SwitchableServiceModule{reflect.TypeFor[M]()}
}

// ToSwitchableView resolves whichever view capability s carries.
func ToSwitchableView(reg *registry.Registry, s SwitchableView) (*Handle[any, any], error) {
	return resolve[any, any](reg, provider.ViewDestination, s.capability)
}

// ToSwitchableViewModule resolves whichever view module capability s carries.
func ToSwitchableViewModule(reg *registry.Registry, s SwitchableViewModule) (*Handle[any, any], error) {
	return resolve[any, any](reg, provider.ViewModule, s.capability)
}

// ToSwitchableService resolves whichever service capability s carries.
func ToSwitchableService(reg *registry.Registry, s SwitchableService) (*Handle[any, any], error) {
	return resolve[any, any](reg, provider.ServiceDestination, s.capability)
}

// ToSwitchableServiceModule resolves whichever service module capability s
// carries.
func ToSwitchableServiceModule(reg *registry.Registry, s SwitchableServiceModule) (*Handle[any, any], error) {
	return resolve[any, any](reg, provider.ServiceModule, s.capability)
}

// ToDynamicView resolves a view capability by canonical name.
// Only use this when the capability is not known at compile time, such as
// when handling a deep link.
func ToDynamicView(reg *registry.Registry, name string) (*Handle[any, any], error) {
	return resolveName(reg, provider.ViewDestination, name)
}

// ToDynamicViewModule resolves a view module capability by canonical name.
func ToDynamicViewModule(reg *registry.Registry, name string) (*Handle[any, any], error) {
	return resolveName(reg, provider.ViewModule, name)
}

// ToDynamicService resolves a service capability by canonical name.
func ToDynamicService(reg *registry.Registry, name string) (*Handle[any, any], error) {
	return resolveName(reg, provider.ServiceDestination, name)
}

// ToDynamicServiceModule resolves a service module capability by canonical
// name.
func ToDynamicServiceModule(reg *registry.Registry, name string) (*Handle[any, any], error) {
	return resolveName(reg, provider.ServiceModule, name)
}

// ToDynamic resolves a capability by name for any role.
func ToDynamic(reg *registry.Registry, role provider.Role, name string) (*Handle[any, any], error) {
	return resolveName(reg, role, name)
}

func resolve[D any, M any](reg *registry.Registry, role provider.Role, capability reflect.Type) (*Handle[D, M], error) {
	p, err := reg.Resolve(role, capability)
	if err != nil {
		return nil, err
	}
	return newHandle[D, M](reg, role, p), nil
}

func resolveName(reg *registry.Registry, role provider.Role, name string) (*Handle[any, any], error) {
	p, err := reg.ResolveName(role, name)
	if err != nil {
		return nil, err
	}
	return newHandle[any, any](reg, role, p), nil
}
