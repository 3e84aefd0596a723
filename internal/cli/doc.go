// Package cli defines the Cobra command tree for the discoverable CLI. Each
// file in this package registers one top-level command (packages, modules,
// discover, etc.) with the root command. Commands delegate discovery to
// pkg/catalog and only handle flag parsing and output formatting.
package cli
