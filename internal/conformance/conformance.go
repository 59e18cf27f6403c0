// Package conformance answers whether a concrete type satisfies a capability.
//
// Static handles in-process capabilities with Go's own type relations.
// Select routes native-interop capabilities to the interop runtime, which
// owns their conformance rules.
package conformance

import "reflect"

// Checker reports whether values of type t satisfy capability.
type Checker interface {
	Conforms(t, capability reflect.Type) bool
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(t, capability reflect.Type) bool

func (f CheckerFunc) Conforms(t, capability reflect.Type) bool { return f(t, capability) }

// Static is the in-process checker. An interface capability is satisfied by
// any type implementing it; a concrete capability only by assignable types.
type Static struct{}

func (Static) Conforms(t, capability reflect.Type) bool {
	if t == nil || capability == nil {
		return false
	}
	if capability.Kind() == reflect.Interface {
		return t.Implements(capability)
	}
	return t.AssignableTo(capability)
}

// Value reports whether the dynamic type of v satisfies capability. A nil
// value satisfies nothing.
func Value(c Checker, v any, capability reflect.Type) bool {
	if v == nil {
		return false
	}
	return c.Conforms(reflect.TypeOf(v), capability)
}

// Native is the part of the interop runtime needed to check native-interop
// capabilities.
type Native interface {
	IsNative(capability reflect.Type) bool
	Conforms(t, capability reflect.Type) bool
}

// Select returns a checker that defers native-interop capabilities to
// native and checks everything else statically. A nil native yields Static.
func Select(native Native) Checker {
	if native == nil {
		return Static{}
	}
	return CheckerFunc(func(t, capability reflect.Type) bool {
		if native.IsNative(capability) {
			return native.Conforms(t, capability)
		}
		return Static{}.Conforms(t, capability)
	})
}
