// Package scaffold generates discoverable manifests from embedded templates.
// It powers the "discoverable create" command: a root manifest declaring
// package globs, or a package manifest declaring module types and their
// globs. Generated manifests are validated against the manifest schema.
package scaffold
