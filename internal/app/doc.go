// Package app contains the application logic of caproute. It builds the
// registry from the compiled-in modules and the route manifests, closes the
// registration phase, and serves lookups, decoupled from any specific
// entrypoint like a CLI.
package app
