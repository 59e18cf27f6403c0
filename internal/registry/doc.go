// Package registry is the process-wide directory that maps capabilities to
// the providers that satisfy them.
//
// A Registry holds four tables, one per provider.Role, each mapping a
// capability key to exactly one provider. Registration is only allowed while
// the registry is open. Finish closes it and runs a single batch pass that
// checks every concrete type a provider can produce against every capability
// recorded for that provider. After that the tables are read-only and
// resolution is safe from any goroutine.
//
// Resolution tries, in order: the matching table, then the native-interop
// runtime for capabilities it owns, and finally reports a miss. Dynamic
// lookups by name probe the table first and only then ask the runtime for a
// live capability of that name, so explicit registrations win over
// incidentally same-named native capabilities.
//
// Programming errors (duplicate registration, late registration, wrong
// provider kind, a default configuration that does not satisfy its module
// capability, a non-conforming destination type, a capability with no
// identity) and misses are delivered to the configured ErrorHandler. With
// assertions enabled they also panic, which is how debug builds halt at the
// offending call site; otherwise they are returned as errors.
package registry
