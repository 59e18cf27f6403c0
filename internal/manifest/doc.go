// Package manifest loads route manifests: HCL files that bind capability
// names to provider names for one of the four roles.
//
//	bind "view" "greeter.Greeter" {
//	  provider    = "greeter.HelloRouter"
//	  description = "default greeting screen"
//	  enabled     = var.greeter_enabled
//	}
//
// Attributes may reference variables under var.*. A variable block declares
// a default, and values supplied to the Loader override it:
//
//	variable "greeter_enabled" {
//	  default = "true"
//	}
//
// enabled defaults to true; any value convertible to a bool is accepted.
// Disabled bindings are kept in the Model so callers can report them.
package manifest
