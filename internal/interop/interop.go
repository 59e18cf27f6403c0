// Package interop is the boundary to the native-interop runtime: the part of
// the host that owns some capabilities itself, registers providers for them
// through its own path and resolves them by identity or by name.
package interop

import (
	"reflect"

	"github.com/vk/caproute/internal/provider"
)

// Runtime is everything the registry consumes from the native-interop side.
type Runtime interface {
	// IsNative reports whether capability is owned by the runtime.
	IsNative(capability reflect.Type) bool

	// ProtocolNamed looks up a live native capability by name.
	ProtocolNamed(name string) (reflect.Type, bool)

	// Register records p as a provider of a native capability.
	Register(role provider.Role, capability reflect.Type, p provider.Provider)

	// Resolve returns a usable provider for a native capability.
	Resolve(role provider.Role, capability reflect.Type) (provider.Provider, bool)

	// Conforms reports whether t satisfies a native capability.
	Conforms(t, capability reflect.Type) bool
}
