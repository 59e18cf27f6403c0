package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/caproute/internal/catalog"
	"github.com/vk/caproute/internal/ctxlog"
	"github.com/vk/caproute/internal/interop"
	"github.com/vk/caproute/internal/manifest"
	"github.com/vk/caproute/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	registry *registry.Registry
	model    *manifest.Model
	config   *Config
}

// NewApp builds a ready-to-serve App: it registers the modules, binds the
// manifests and closes the registration phase. Logs go to logW. With
// Config.Assertions set, registry programming errors panic instead of being
// returned.
func NewApp(ctx context.Context, logW io.Writer, cfg *Config, modules ...catalog.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	native := interop.NewCatalog()
	reg := registry.New(
		registry.WithLogger(logger),
		registry.WithConformanceChecks(cfg.Checks),
		registry.WithAssertions(cfg.Assertions),
		registry.WithInterop(native),
	)
	cat := catalog.New(reg, native)

	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(cat)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	model, err := manifest.NewLoader(cfg.Vars).Load(ctx, cfg.ManifestPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifests: %w", err)
	}
	if err := bind(ctx, reg, cat, model); err != nil {
		return nil, err
	}

	if err := reg.Finish(); err != nil {
		return nil, fmt.Errorf("registry validation failed: %w", err)
	}
	logger.Debug("Registration phase finished.")

	return &App{
		logger:   logger,
		registry: reg,
		model:    model,
		config:   cfg,
	}, nil
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Manifest returns the loaded manifest model, including disabled bindings.
func (a *App) Manifest() *manifest.Model {
	return a.model
}
