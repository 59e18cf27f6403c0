package key

import (
	"fmt"
	"reflect"
)

// Source names the identity variant a provider is keyed by. It is not part
// of a Key; registration logs it next to the provider key.
type Source uint8

const (
	SourceName Source = iota
	SourceType
	SourceRoute
)

func (s Source) String() string {
	switch s {
	case SourceType:
		return "type"
	case SourceRoute:
		return "route"
	default:
		return "name"
	}
}

// Key is the normalized identity of a capability or a provider.
type Key struct {
	id string
}

// Identifier is implemented by provider values that carry their own identity
// instead of relying on their Go type (value-based route providers).
type Identifier interface {
	// Identity returns the canonical identity of the value, or "" if it has none.
	Identity() string
}

// ForType builds a key from a type identity. A nil type yields no key.
func ForType(t reflect.Type) (Key, bool) {
	if t == nil {
		return Key{}, false
	}
	return Key{id: t.String()}, true
}

// Of returns the key for the static type T. It is typically used with an
// interface type: key.Of[Greeter]().
func Of[T any]() Key {
	return Key{id: reflect.TypeFor[T]().String()}
}

// ForProvider builds a key from a provider value. Values implementing
// Identifier are keyed by their identity; any other value is keyed by its
// dynamic type. A nil value, or an Identifier with an empty identity, yields
// no key.
func ForProvider(p any) (Key, bool) {
	if p == nil {
		return Key{}, false
	}
	if idf, ok := p.(Identifier); ok {
		id := idf.Identity()
		if id == "" {
			return Key{}, false
		}
		return Key{id: id}, true
	}
	return ForType(reflect.TypeOf(p))
}

// SourceOf reports which identity variant ForProvider would use for p.
func SourceOf(p any) Source {
	if _, ok := p.(Identifier); ok {
		return SourceRoute
	}
	return SourceType
}

// ForName builds a key from a raw name, as used by dynamic lookups.
func ForName(name string) Key { return Key{id: name} }

// IsZero reports whether the key carries no identity.
func (k Key) IsZero() bool { return k.id == "" }

// String returns the canonical rendering of the key.
func (k Key) String() string {
	if k.id == "" {
		return "<empty>"
	}
	return k.id
}

// GoString makes keys readable in %#v output and test failures.
func (k Key) GoString() string { return fmt.Sprintf("key.Key(%q)", k.id) }

// Less orders keys by canonical string.
func Less(a, b Key) bool { return a.id < b.id }
