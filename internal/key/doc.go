// Package key defines the identity used to index every table in the
// capability registry.
//
// A Key is built from exactly one of three sources: a type identity (a
// capability interface or a provider type), a provider route value, or a raw
// name used by dynamic lookups. All three project onto one canonical string,
// and two keys are equal iff their canonical strings match. Keys are plain
// comparable values and can be used directly as map keys.
//
// The canonical string of a type is reflect.Type.String(), which carries the
// package name but not the import path. Two distinct types with the same
// package name and type name therefore share a key; the registry reports the
// second one as a duplicate. Capability types must be unique by that short
// name, which is also the name dynamic lookups and manifests use.
package key
