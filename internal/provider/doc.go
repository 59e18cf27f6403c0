// Package provider defines what the capability registry stores: providers
// that can create destinations for a capability, the two provider kinds
// (view and service), value-based Route providers, and the four registrable
// roles.
package provider
