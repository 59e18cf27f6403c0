package registry

import (
	"reflect"

	"github.com/vk/caproute/internal/conformance"
	"github.com/vk/caproute/internal/key"
	"github.com/vk/caproute/internal/provider"
)

// Register records p as the provider of capability for role.
//
// Native-interop capabilities are handed to the interop runtime and never
// touch the tables. Any violation leaves the registry unchanged.
func (r *Registry) Register(role provider.Role, capability reflect.Type, p provider.Provider) error {
	perr := &ProgrammingError{Role: role, Provider: provider.Describe(p)}

	capKey, ok := key.ForType(capability)
	if !ok {
		perr.Capability = "<nil>"
		perr.Err = ErrNoIdentity
		return r.fail(role.Action, perr)
	}
	perr.Capability = capKey.String()

	if r.Sealed() {
		perr.Err = ErrSealed
		return r.fail(role.Action, perr)
	}
	if p == nil || p.Kind() != role.Kind {
		perr.Err = ErrProviderKind
		return r.fail(role.Action, perr)
	}

	if r.isNative(capability) {
		r.interop.Register(role, capability, p)
		r.logger.Debug("Delegated native capability registration.", "role", role.Name, "capability", capKey.String(), "provider", perr.Provider)
		return nil
	}

	var provKey key.Key
	record := r.checkEnabled && !role.Module
	if record {
		if provKey, ok = key.ForProvider(p); !ok {
			perr.Err = ErrNoIdentity
			return r.fail(role.Action, perr)
		}
	}

	configOK := true
	if role.Module {
		configOK = conformance.Value(r.checker, p.DefaultConfiguration(), capability)
	}

	if err := r.insert(role, capKey, capability, p, provKey, record, configOK, perr); err != nil {
		return r.fail(role.Action, err)
	}
	r.logger.Debug("Registered capability.", "role", role.Name, "capability", capKey.String(), "provider", perr.Provider, "provider_source", key.SourceOf(p).String())
	return nil
}

// insert performs the duplicate and configuration checks and mutates the
// tables under one lock so a failed call leaves no partial state.
func (r *Registry) insert(role provider.Role, capKey key.Key, capability reflect.Type, p provider.Provider, provKey key.Key, record, configOK bool, perr *ProgrammingError) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		perr.Err = ErrSealed
		return perr
	}
	table := r.tables[role.Index()]
	if prev, exists := table[capKey]; exists {
		perr.Previous = provider.Describe(prev.provider)
		perr.Err = ErrDuplicate
		return perr
	}
	if !configOK {
		perr.Err = ErrConfigMismatch
		return perr
	}

	if record {
		checks := r.checks[checkIndex(role.Kind)]
		set, ok := checks[provKey]
		if !ok {
			set = &checkSet{provider: p, capabilities: make(map[key.Key]reflect.Type)}
			checks[provKey] = set
		}
		set.capabilities[capKey] = capability
	}
	table[capKey] = entry{capability: capability, provider: p}
	return nil
}

// MustRegister is like Register but panics on error. Useful from Module
// registration code.
func (r *Registry) MustRegister(role provider.Role, capability reflect.Type, p provider.Provider) {
	if err := r.Register(role, capability, p); err != nil {
		panic(err)
	}
}
