// Package manifest handles reading, parsing, and validation of discoverable
// package manifests. A manifest is a JSON (or YAML) document at the root of a
// directory; its optional "discoverable" section declares sub-package globs
// (with optional embedded manifests) and per-type module globs.
//
// Parsing preserves declaration order for every mapping that drives discovery
// order, so packages and module types are visited exactly as written.
package manifest
