// Package cli turns command-line arguments into an app.Config: manifest
// paths, manifest variables, the lookups to resolve and the listing format.
// It also owns process-level concerns like exit codes.
package cli
