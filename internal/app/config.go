package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/caproute/internal/provider"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // hcl files or directories

	LogFormat string
	LogLevel  string

	// Checks records destination capabilities for the validation pass.
	Checks bool
	// Assertions turns registry programming errors into panics.
	Assertions bool
	// Vars are exposed to manifests as var.<name>.
	Vars map[string]string

	Lookups []Lookup
	List    bool
	Output  string // text or yaml
}

// Lookup is a dynamic resolution requested on the command line.
type Lookup struct {
	Role provider.Role
	Name string
}

// ParseLookup parses "role:name", e.g. "view:greeter.Greeter".
func ParseLookup(s string) (Lookup, error) {
	roleName, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return Lookup{}, fmt.Errorf("invalid lookup %q: expected role:name", s)
	}
	role, ok := provider.RoleNamed(roleName)
	if !ok {
		return Lookup{}, fmt.Errorf("invalid lookup %q: unknown role %q", s, roleName)
	}
	return Lookup{Role: role, Name: name}, nil
}

func (l Lookup) String() string { return l.Role.Name + ":" + l.Name }

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ManifestPaths) == 0 {
		return nil, errors.New("at least one manifest path is required")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	if cfg.Output == "" {
		cfg.Output = "text"
	}
	if cfg.Output != "text" && cfg.Output != "yaml" {
		return nil, fmt.Errorf("invalid output format %q", cfg.Output)
	}
	return &cfg, nil
}
