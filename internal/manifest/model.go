package manifest

import "github.com/hashicorp/hcl/v2"

// Model is the format-agnostic result of loading one or more manifests.
type Model struct {
	Bindings []*Binding
}

// Binding declares that Provider serves Capability in Role.
type Binding struct {
	Role        string
	Capability  string
	Provider    string
	Description string
	Enabled     bool
	File        string
}

// bindBlock is the HCL schema of a `bind` block.
type bindBlock struct {
	Role        string         `hcl:"role,label"`
	Capability  string         `hcl:"capability,label"`
	Provider    string         `hcl:"provider"`
	Description string         `hcl:"description,optional"`
	Enabled     hcl.Expression `hcl:"enabled,optional"`
}

// variableBlock declares a manifest variable and its default value.
type variableBlock struct {
	Name        string `hcl:"name,label"`
	Default     string `hcl:"default,optional"`
	Description string `hcl:"description,optional"`
}

// variablesRoot decodes only the variable blocks, leaving the rest for the
// second pass.
type variablesRoot struct {
	Variables []*variableBlock `hcl:"variable,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// fileRoot decodes all top-level blocks of a manifest file.
type fileRoot struct {
	Variables []*variableBlock `hcl:"variable,block"`
	Bindings  []*bindBlock     `hcl:"bind,block"`
	Remain    hcl.Body         `hcl:",remain"`
}
