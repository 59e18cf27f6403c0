package registry

import (
	"reflect"

	"github.com/vk/caproute/internal/key"
	"github.com/vk/caproute/internal/provider"
)

// Resolve returns the provider registered for a statically known capability.
//
// The table is probed first; a stored route that fails to materialize counts
// as a miss there. Native capabilities then fall back to the interop runtime.
// A miss for an in-process capability is reported and returned as a
// *ResolutionMiss; a miss for a native capability is only returned.
func (r *Registry) Resolve(role provider.Role, capability reflect.Type) (provider.Provider, error) {
	capKey, ok := key.ForType(capability)
	if !ok {
		return nil, r.fail(role.Action, &ProgrammingError{Role: role, Capability: "<nil>", Provider: "<none>", Err: ErrNoIdentity})
	}

	if p, ok := r.lookup(role, capKey); ok {
		return p, nil
	}

	if r.isNative(capability) {
		if p, ok := r.interop.Resolve(role, capability); ok {
			return p, nil
		}
		return nil, &ResolutionMiss{Role: role, Capability: capKey.String(), Native: true}
	}

	return nil, r.fail(role.Action, &ResolutionMiss{Role: role, Capability: capKey.String()})
}

// ResolveName returns the provider registered for a capability given by
// name, as used by deep links. Explicit registrations are preferred over a
// live native capability of the same name.
func (r *Registry) ResolveName(role provider.Role, name string) (provider.Provider, error) {
	if name != "" {
		if p, ok := r.lookup(role, key.ForName(name)); ok {
			return p, nil
		}
	}

	native := false
	if r.interop != nil && name != "" {
		if capability, ok := r.interop.ProtocolNamed(name); ok && r.interop.IsNative(capability) {
			native = true
			if p, ok := r.interop.Resolve(role, capability); ok {
				return p, nil
			}
		}
	}

	miss := &ResolutionMiss{Role: role, Capability: name, Dynamic: true, Native: native}
	if native {
		return nil, miss
	}
	return nil, r.fail(role.Action, miss)
}

// lookup probes the role table and materializes the stored provider.
func (r *Registry) lookup(role provider.Role, k key.Key) (provider.Provider, bool) {
	stored, ok := r.Lookup(role, k)
	if !ok {
		return nil, false
	}
	p, err := provider.Materialize(stored)
	if err != nil {
		r.logger.Warn("Registered provider could not be materialized, treating as a miss.",
			"role", role.Name, "capability", k.String(), "provider", provider.Describe(stored), "error", err)
		return nil, false
	}
	return p, true
}
