package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/caproute/internal/ctxlog"
	"github.com/vk/caproute/internal/provider"
	"github.com/vk/caproute/internal/router"
)

// Run resolves every configured lookup, creates its destination and writes
// one line per lookup to outW, then writes the registration snapshot if
// requested.
func (a *App) Run(ctx context.Context, outW io.Writer) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "lookups", len(a.config.Lookups))

	for _, l := range a.config.Lookups {
		line, err := a.Describe(ctx, l)
		if err != nil {
			return err
		}
		fmt.Fprintln(outW, line)
	}

	if a.config.List {
		if err := WriteSnapshot(outW, a.Snapshot(), a.config.Output); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Describe resolves l by name and creates a destination from the default
// configuration.
func (a *App) Describe(ctx context.Context, l Lookup) (string, error) {
	h, err := router.ToDynamic(a.registry, l.Role, l.Name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", l, err)
	}
	dest, err := h.Make(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create destination for %s: %w", l, err)
	}
	return fmt.Sprintf("%s -> %s: %v", l, provider.Describe(h.Provider()), dest), nil
}
