package registry

import (
	"reflect"

	"github.com/vk/caproute/internal/conformance"
	"github.com/vk/caproute/internal/key"
	"github.com/vk/caproute/internal/provider"
)

// Finish closes the registration phase and runs the batch validation pass.
// It runs once; later calls return the first result. The result is recorded
// before it is reported, so with assertions on a recovered panic is followed
// by the same error on the next call.
func (r *Registry) Finish() error {
	ran := false
	r.finishOnce.Do(func() {
		ran = true
		r.mu.Lock()
		r.sealed = true
		r.mu.Unlock()
		r.logger.Debug("Registration phase closed.", "entries", r.count())

		if perr := r.validate(); perr != nil {
			r.finishErr = perr
			r.finishAction = perr.Role.Action
		}
	})
	if r.finishErr == nil {
		if ran {
			r.logger.Debug("Registry validation passed.")
		}
		return nil
	}
	if ran {
		return r.fail(r.finishAction, r.finishErr)
	}
	return r.finishErr
}

// validate walks every (provider, capability set) pair in the check tables
// and returns the first destination type that does not conform.
func (r *Registry) validate() *ProgrammingError {
	for _, role := range []provider.Role{provider.ViewDestination, provider.ServiceDestination} {
		checks := r.checks[checkIndex(role.Kind)]
		for _, pk := range sortedKeys(checks) {
			set := checks[pk]
			for _, ck := range sortedKeys(set.capabilities) {
				capability := set.capabilities[ck]
				bad := provider.FirstMismatch(set.provider, func(t reflect.Type) bool {
					return r.checker.Conforms(t, capability)
				})
				if bad != nil {
					return &ProgrammingError{
						Role:       role,
						Capability: ck.String(),
						Provider:   pk.String(),
						Class:      bad.String(),
						Err:        ErrNonConforming,
					}
				}
			}
		}
	}
	return nil
}

// ValidateDestination checks a freshly created destination of p against
// every capability recorded for p. Providers with no recorded capabilities
// always pass.
func (r *Registry) ValidateDestination(p provider.Provider, destination any) error {
	if p == nil {
		return nil
	}
	role := provider.ViewDestination
	if p.Kind() == provider.KindService {
		role = provider.ServiceDestination
	}
	pk, ok := key.ForProvider(p)
	if !ok {
		return r.fail(role.Action, &ProgrammingError{Role: role, Capability: "<unknown>", Provider: provider.Describe(p), Err: ErrNoIdentity})
	}

	r.mu.RLock()
	set, ok := r.checks[checkIndex(p.Kind())][pk]
	var caps map[key.Key]reflect.Type
	if ok {
		caps = set.capabilities
	}
	r.mu.RUnlock()

	class := "<nil>"
	if destination != nil {
		class = reflect.TypeOf(destination).String()
	}
	for _, ck := range sortedKeys(caps) {
		if !conformance.Value(r.checker, destination, caps[ck]) {
			return r.fail(role.Action, &ProgrammingError{
				Role:       role,
				Capability: ck.String(),
				Provider:   pk.String(),
				Class:      class,
				Err:        ErrNonConforming,
			})
		}
	}
	return nil
}

func (r *Registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.tables {
		n += len(t)
	}
	return n
}
