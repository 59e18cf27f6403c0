package router

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/registry"
)

// Handle is bound to a resolved provider. D is the destination capability and
// M the module configuration capability the handle was requested with. A
// handle carries no registration side effects and is cheap to build.
type Handle[D any, M any] struct {
	provider provider.Provider
	role     provider.Role
	reg      *registry.Registry
}

func newHandle[D any, M any](reg *registry.Registry, role provider.Role, p provider.Provider) *Handle[D, M] {
	return &Handle[D, M]{provider: p, role: role, reg: reg}
}

// Provider returns the provider the handle is bound to.
func (h *Handle[D, M]) Provider() provider.Provider { return h.provider }

// Role returns the role the handle was resolved for.
func (h *Handle[D, M]) Role() provider.Role { return h.role }

// Configuration returns a fresh default configuration as M.
func (h *Handle[D, M]) Configuration() (M, bool) {
	m, ok := h.provider.DefaultConfiguration().(M)
	return m, ok
}

// Make creates a destination. configure, when not nil, may adjust the
// default configuration before the provider sees it; it is not called when
// the provider has no default configuration. With validation mode on,
// the new destination is checked against every capability recorded for the
// provider.
func (h *Handle[D, M]) Make(ctx context.Context, configure func(M)) (D, error) {
	var zero D
	cfg := h.provider.DefaultConfiguration()
	// A provider without a default configuration has nothing to adjust.
	if configure != nil && cfg != nil {
		m, ok := cfg.(M)
		if !ok {
			return zero, fmt.Errorf("router: configuration %T of provider (%s) is not %s",
				cfg, provider.Describe(h.provider), reflect.TypeFor[M]())
		}
		configure(m)
	}

	dest, err := h.provider.MakeDestination(ctx, cfg)
	if err != nil {
		return zero, fmt.Errorf("router: provider (%s): %w", provider.Describe(h.provider), err)
	}
	if h.reg != nil && h.reg.ChecksEnabled() {
		if err := h.reg.ValidateDestination(h.provider, dest); err != nil {
			return zero, err
		}
	}

	d, ok := dest.(D)
	if !ok {
		return zero, fmt.Errorf("router: destination %T of provider (%s) is not %s",
			dest, provider.Describe(h.provider), reflect.TypeFor[D]())
	}
	return d, nil
}
