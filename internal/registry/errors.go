package registry

import (
	"errors"
	"fmt"

	"github.com/vk/caproute/internal/provider"
)

var (
	// ErrSealed indicates registration after Finish.
	ErrSealed = errors.New("registry: registration phase is closed")
	// ErrDuplicate indicates a second provider for the same capability.
	ErrDuplicate = errors.New("registry: duplicate registration")
	// ErrProviderKind indicates a provider that does not implement the
	// abstraction required by the role.
	ErrProviderKind = errors.New("registry: provider kind does not match role")
	// ErrConfigMismatch indicates a default configuration that does not
	// satisfy the module capability it is registered for.
	ErrConfigMismatch = errors.New("registry: default configuration does not conform")
	// ErrNonConforming indicates a destination type that does not satisfy a
	// registered capability.
	ErrNonConforming = errors.New("registry: destination does not conform")
	// ErrNoIdentity indicates a capability or provider whose identity cannot
	// be determined.
	ErrNoIdentity = errors.New("registry: identity indeterminate")
	// ErrNotRegistered indicates a capability that resolves to no provider.
	ErrNotRegistered = errors.New("registry: capability not registered")
)

// ProgrammingError describes a misuse of the registry detected at the point
// of violation. Err is one of the sentinel errors above.
type ProgrammingError struct {
	Role       provider.Role
	Capability string
	Provider   string
	Previous   string
	Class      string
	Err        error
}

func (e *ProgrammingError) Error() string {
	switch {
	case errors.Is(e.Err, ErrDuplicate):
		return fmt.Sprintf("%s: %s (%s) was already registered with provider (%s), cannot register provider (%s)",
			e.Err, e.Role.Label, e.Capability, e.Previous, e.Provider)
	case errors.Is(e.Err, ErrSealed):
		return fmt.Sprintf("%s: cannot register %s (%s) with provider (%s) after registration finished",
			e.Err, e.Role.Label, e.Capability, e.Provider)
	case errors.Is(e.Err, ErrProviderKind):
		return fmt.Sprintf("%s: provider (%s) must be a %s provider to register %s (%s)",
			e.Err, e.Provider, e.Role.Kind, e.Role.Label, e.Capability)
	case errors.Is(e.Err, ErrConfigMismatch):
		return fmt.Sprintf("%s: the default configuration of provider (%s) must conform to %s (%s)",
			e.Err, e.Provider, e.Role.Label, e.Capability)
	case errors.Is(e.Err, ErrNonConforming):
		return fmt.Sprintf("%s: destination type (%s) of provider (%s) does not conform to %s (%s)",
			e.Err, e.Class, e.Provider, e.Role.Label, e.Capability)
	default:
		return fmt.Sprintf("%s: %s (%s), provider (%s)", e.Err, e.Role.Label, e.Capability, e.Provider)
	}
}

func (e *ProgrammingError) Unwrap() error { return e.Err }

// ResolutionMiss reports a lookup that produced no provider.
type ResolutionMiss struct {
	Role       provider.Role
	Capability string
	Dynamic    bool
	// Native is set when the capability is owned by the interop runtime; such
	// misses are returned but never reported.
	Native bool
}

func (e *ResolutionMiss) Error() string {
	if e.Dynamic {
		return fmt.Sprintf("%s: %s name (%s) is invalid, it was not registered with any %s provider and names no native capability",
			ErrNotRegistered, e.Role.Label, e.Capability, e.Role.Kind)
	}
	return fmt.Sprintf("%s: %s (%s) was not registered with any %s provider",
		ErrNotRegistered, e.Role.Label, e.Capability, e.Role.Kind)
}

func (e *ResolutionMiss) Unwrap() error { return ErrNotRegistered }
