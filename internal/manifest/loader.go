package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/caproute/internal/ctxlog"
	"github.com/vk/caproute/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Loader reads route manifests from files and directories.
type Loader struct {
	vars map[string]string
}

// NewLoader creates a loader that exposes vars to manifests as var.<name>.
func NewLoader(vars map[string]string) *Loader {
	return &Loader{vars: vars}
}

// Load parses every .hcl file found under paths. Paths that do not exist are
// skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	parsed := make([]*hcl.File, 0, len(files))
	defaults := make(map[string]string)
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}
		parsed = append(parsed, hclFile)

		var vars variablesRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &vars); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode variables in %s: %w", file, diags)
		}
		for _, v := range vars.Variables {
			if prev, exists := defaults[v.Name]; exists && prev != v.Default {
				return nil, fmt.Errorf("manifest %s: variable %q redeclared with a different default", file, v.Name)
			}
			defaults[v.Name] = v.Default
		}
	}

	evalCtx := l.evalContext(defaults)
	model := &Model{}

	for i, file := range files {
		var root fileRoot
		if diags := gohcl.DecodeBody(parsed[i].Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
		}

		fileLogger := ctxlog.FromContext(ctxlog.With(ctx, "file", file))
		for _, block := range root.Bindings {
			enabled, err := evalEnabled(block.Enabled, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("manifest %s: bind %q %q: %w", file, block.Role, block.Capability, err)
			}
			model.Bindings = append(model.Bindings, &Binding{
				Role:        block.Role,
				Capability:  block.Capability,
				Provider:    block.Provider,
				Description: block.Description,
				Enabled:     enabled,
				File:        file,
			})
			fileLogger.Debug("Loaded binding.", "role", block.Role, "capability", block.Capability, "provider", block.Provider, "enabled", enabled)
		}
	}

	logger.Debug("Manifest loading complete.", "bindings", len(model.Bindings))
	return model, nil
}

// evalContext exposes declared defaults overridden by the loader's vars.
func (l *Loader) evalContext(defaults map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(defaults)+len(l.vars))
	for name, value := range defaults {
		vars[name] = cty.StringVal(value)
	}
	for name, value := range l.vars {
		vars[name] = cty.StringVal(value)
	}
	varObj := cty.EmptyObjectVal
	if len(vars) > 0 {
		varObj = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": varObj},
	}
}

// evalEnabled evaluates the optional `enabled` attribute. A missing or null
// value means enabled.
func evalEnabled(expr hcl.Expression, evalCtx *hcl.EvalContext) (bool, error) {
	if expr == nil {
		return true, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return false, diags
	}
	if val.IsNull() {
		return true, nil
	}
	if !val.IsWhollyKnown() {
		return false, fmt.Errorf("enabled must be known at load time")
	}
	converted, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("enabled must be a bool, got %s: %w", val.Type().FriendlyName(), err)
	}
	var enabled bool
	if err := gocty.FromCtyValue(converted, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}
