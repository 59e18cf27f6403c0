package app

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/caproute/internal/catalog"
	"github.com/vk/caproute/internal/ctxlog"
	"github.com/vk/caproute/internal/manifest"
	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/registry"
)

type resolvedBinding struct {
	source     *manifest.Binding
	role       provider.Role
	capability reflect.Type
	provider   provider.Provider
}

// bind registers every enabled manifest binding. All names are resolved
// against the catalog first, so a manifest with unknown names registers
// nothing.
func bind(ctx context.Context, reg *registry.Registry, cat *catalog.Catalog, model *manifest.Model) error {
	logger := ctxlog.FromContext(ctx)

	var errs []string
	var ready []resolvedBinding
	for _, b := range model.Bindings {
		if !b.Enabled {
			logger.Debug("Skipping disabled binding.", "file", b.File, "role", b.Role, "capability", b.Capability, "provider", b.Provider)
			continue
		}
		role, ok := provider.RoleNamed(b.Role)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown role '%s' for capability '%s'", b.File, b.Role, b.Capability))
			continue
		}
		capability, ok := cat.Capability(b.Capability)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: capability '%s' is not declared by any module", b.File, b.Capability))
			continue
		}
		p, ok := cat.Provider(b.Provider)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: provider '%s' is not declared by any module", b.File, b.Provider))
			continue
		}
		ready = append(ready, resolvedBinding{source: b, role: role, capability: capability, provider: p})
	}
	if len(errs) > 0 {
		return fmt.Errorf("manifest binding failed:\n- %s", strings.Join(errs, "\n- "))
	}

	for _, rb := range ready {
		if err := reg.Register(rb.role, rb.capability, rb.provider); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", rb.source.File, err))
			continue
		}
		logger.Debug("Bound capability from manifest.", "file", rb.source.File, "role", rb.role.Name, "capability", rb.source.Capability, "provider", rb.source.Provider)
	}
	if len(errs) > 0 {
		return fmt.Errorf("manifest binding failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Manifest bindings registered.", "count", len(ready))
	return nil
}
