package registry

import (
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/vk/caproute/internal/conformance"
	"github.com/vk/caproute/internal/interop"
	"github.com/vk/caproute/internal/key"
	"github.com/vk/caproute/internal/provider"
)

// ErrorHandler receives every programming error and every reported miss.
// action names the lookup or registration path, e.g. "toView".
type ErrorHandler func(action string, err error)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithConformanceChecks enables recording destination capabilities for the
// batch validation pass run by Finish.
func WithConformanceChecks(enabled bool) Option {
	return func(r *Registry) { r.checkEnabled = enabled }
}

// WithAssertions makes programming errors and reported misses panic after
// they have been handed to the ErrorHandler.
func WithAssertions(enabled bool) Option {
	return func(r *Registry) { r.assertions = enabled }
}

// WithInterop connects the native-interop runtime.
func WithInterop(rt interop.Runtime) Option {
	return func(r *Registry) { r.interop = rt }
}

// WithErrorHandler sets the global error-reporting collaborator.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Registry) { r.onError = h }
}

// WithChecker overrides the conformance checker used for in-process
// capabilities.
func WithChecker(c conformance.Checker) Option {
	return func(r *Registry) { r.checker = c }
}

// entry is one registration in a role table.
type entry struct {
	capability reflect.Type
	provider   provider.Provider
}

// checkSet accumulates the capabilities a provider must be validated against.
type checkSet struct {
	provider     provider.Provider
	capabilities map[key.Key]reflect.Type
}

// Registry maps capabilities to providers for the four roles.
type Registry struct {
	mu     sync.RWMutex
	tables [provider.RoleCount]map[key.Key]entry
	// checks is indexed by checkIndex(kind).
	checks [2]map[key.Key]*checkSet
	sealed bool

	finishOnce   sync.Once
	finishErr    error
	finishAction string

	logger       *slog.Logger
	checkEnabled bool
	assertions   bool
	interop      interop.Runtime
	checker      conformance.Checker
	onError      ErrorHandler
}

// New creates an open, empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for i := range r.tables {
		r.tables[i] = make(map[key.Key]entry)
	}
	for i := range r.checks {
		r.checks[i] = make(map[key.Key]*checkSet)
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.checker == nil {
		if r.interop != nil {
			r.checker = conformance.Select(r.interop)
		} else {
			r.checker = conformance.Static{}
		}
	}
	if r.onError == nil {
		logger := r.logger
		r.onError = func(action string, err error) {
			logger.Error("Capability registry error.", "action", action, "error", err)
		}
	}
	return r
}

// Sealed reports whether the registration phase is closed.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// ChecksEnabled reports whether validation mode is on.
func (r *Registry) ChecksEnabled() bool { return r.checkEnabled }

// Lookup probes a role table without materializing or reporting.
func (r *Registry) Lookup(role provider.Role, k key.Key) (provider.Provider, bool) {
	r.mu.RLock()
	e, ok := r.tables[role.Index()][k]
	r.mu.RUnlock()
	return e.provider, ok
}

// Entry is a snapshot of a single registration.
type Entry struct {
	Role       provider.Role
	Capability key.Key
	Provider   provider.Provider
}

// Entries returns all registrations ordered by role, then capability.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	var items []Entry
	for _, role := range provider.Roles() {
		for k, e := range r.tables[role.Index()] {
			items = append(items, Entry{Role: role, Capability: k, Provider: e.provider})
		}
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].Role.Index() == items[j].Role.Index() {
			return key.Less(items[i].Capability, items[j].Capability)
		}
		return items[i].Role.Index() < items[j].Role.Index()
	})
	return items
}

// CheckedCapabilities returns the capabilities recorded for p in the check
// table of the given kind, in canonical order.
func (r *Registry) CheckedCapabilities(kind provider.Kind, p provider.Provider) []key.Key {
	pk, ok := key.ForProvider(p)
	if !ok {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.checks[checkIndex(kind)][pk]
	if !ok {
		return nil
	}
	return sortedKeys(set.capabilities)
}

// fail hands err to the error handler and panics when assertions are on.
func (r *Registry) fail(action string, err error) error {
	r.onError(action, err)
	if r.assertions {
		panic(err)
	}
	return err
}

func (r *Registry) isNative(capability reflect.Type) bool {
	return r.interop != nil && r.interop.IsNative(capability)
}

func checkIndex(kind provider.Kind) int {
	if kind == provider.KindService {
		return 1
	}
	return 0
}

func sortedKeys[V any](m map[key.Key]V) []key.Key {
	keys := make([]key.Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return key.Less(keys[i], keys[j]) })
	return keys
}
